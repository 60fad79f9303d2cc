// Copyright 2023 Stashbin, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verification failures, classified for the handler boundary
var (
	// ErrInvalidCredential covers malformed, badly signed, and expired tokens
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUntrustedIssuer means the token was issued by a party we do not trust
	ErrUntrustedIssuer = errors.New("untrusted issuer")

	// ErrUnauthorizedSubject means the token is valid but its subject is
	// not on the allow-list
	ErrUnauthorizedSubject = errors.New("unauthorized subject")
)

// Claim holds the verified identity fields extracted from a bearer
// token. Built per request and discarded when the request completes.
type Claim struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Config defines how bearer tokens are verified
type Config struct {

	// Issuer is the trusted OIDC issuer URL; discovery locates the JWKS
	Issuer string

	// JWKSURL optionally points at a key set directly, skipping discovery
	JWKSURL string

	// ClientID is the expected token audience, when the issuer sets one
	ClientID string

	// AllowedSubjects is the set of subjects permitted to obtain uploads
	AllowedSubjects []string
}

// Verifier validates bearer tokens against a trusted issuer and
// enforces the subject allow-list
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	issuer   string
	allowed  map[string]struct{}
}

// NewVerifier builds a Verifier using OIDC discovery against cfg.Issuer,
// or a remote key set when cfg.JWKSURL is given
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {

	if cfg.Issuer == "" {
		return nil, errors.New("Issuer must be configured")
	}

	oidcConfig := &oidc.Config{
		ClientID:          cfg.ClientID,
		SkipClientIDCheck: cfg.ClientID == "",
		// The issuer comparison happens in Verify so that a mismatch
		// classifies distinctly from a bad signature
		SkipIssuerCheck: true,
	}

	var v *oidc.IDTokenVerifier
	if cfg.JWKSURL != "" {
		keys := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		v = oidc.NewVerifier(cfg.Issuer, keys, oidcConfig)
	} else {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("Provider discovery failed: %s", err)
		}
		v = provider.Verifier(oidcConfig)
	}

	return &Verifier{
		verifier: v,
		issuer:   cfg.Issuer,
		allowed:  subjectSet(cfg.AllowedSubjects),
	}, nil
}

// newKeySetVerifier wires in an explicit key set; used by tests
func newKeySetVerifier(issuer string, keys oidc.KeySet, subjects []string) *Verifier {
	v := oidc.NewVerifier(issuer, keys, &oidc.Config{
		SkipClientIDCheck: true,
		SkipIssuerCheck:   true,
	})
	return &Verifier{
		verifier: v,
		issuer:   issuer,
		allowed:  subjectSet(subjects),
	}
}

func subjectSet(subjects []string) map[string]struct{} {
	set := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// Verify checks the token's signature, expiry, issuer, and subject.
// It has no side effects.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Claim, error) {

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredential, err)
	}

	if idToken.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: %s", ErrUntrustedIssuer, idToken.Issuer)
	}

	if _, ok := v.allowed[idToken.Subject]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorizedSubject, idToken.Subject)
	}

	return &Claim{
		Subject:   idToken.Subject,
		Issuer:    idToken.Issuer,
		ExpiresAt: idToken.Expiry,
	}, nil
}
