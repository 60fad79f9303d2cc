// Package config carries the environment-derived settings that are
// injected into the handlers at construction time.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config enumerates the recognized settings
type Config struct {

	// Bucket is the target store (required)
	Bucket string

	// Region for AWS API calls
	Region string

	// Prefix restricts listings and sweeps to part of the bucket
	Prefix string

	// TrustedIssuer enables authentication when set
	TrustedIssuer string

	// JWKSURL optionally overrides issuer discovery
	JWKSURL string

	// ClientID is the expected token audience, when the issuer sets one
	ClientID string

	// AllowedSubjects is the upload allow-list
	AllowedSubjects []string

	// MaxAge overrides the retention window; zero means the default
	MaxAge time.Duration
}

// AuthEnabled reports whether the upload handler verifies caller
// identity. This is a deployment-mode switch: without a trusted issuer
// the system issues URLs unauthenticated.
func (c Config) AuthEnabled() bool {
	return c.TrustedIssuer != ""
}

// FromEnv reads configuration from the process environment
func FromEnv() (Config, error) {

	cfg := Config{
		Bucket:        os.Getenv("BUCKET"),
		Region:        os.Getenv("AWS_REGION"),
		Prefix:        os.Getenv("BUCKET_PREFIX"),
		TrustedIssuer: os.Getenv("TRUSTED_ISSUER"),
		JWKSURL:       os.Getenv("JWKS_URL"),
		ClientID:      os.Getenv("CLIENT_ID"),
	}

	if cfg.Bucket == "" {
		return cfg, fmt.Errorf("BUCKET is not set")
	}

	if subjects := os.Getenv("ALLOWED_SUBJECTS"); subjects != "" {
		for _, s := range strings.Split(subjects, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.AllowedSubjects = append(cfg.AllowedSubjects, s)
			}
		}
	}

	if maxAge := os.Getenv("MAX_AGE"); maxAge != "" {
		d, err := time.ParseDuration(maxAge)
		if err != nil {
			return cfg, fmt.Errorf("Invalid MAX_AGE: %s", err)
		}
		cfg.MaxAge = d
	}

	if cfg.AuthEnabled() && len(cfg.AllowedSubjects) == 0 {
		return cfg, fmt.Errorf("ALLOWED_SUBJECTS is not set")
	}

	return cfg, nil
}
