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
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"github.com/stashbin/stashbin/identity"
	"github.com/stashbin/stashbin/sign"
	"github.com/stashbin/stashbin/store"
)

// Verifier checks a bearer token and returns the caller's identity
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*identity.Claim, error)
}

// Upload issues signed upload URLs for API Gateway requests. With a
// nil Verifier the handler runs unauthenticated.
type Upload struct {
	Store    store.Store
	Verifier Verifier
	Logger   *logrus.Logger
}

const (
	msgMissingKey     = "Missing or empty key parameter"
	msgInvalidExpires = "Invalid expires parameter"
	msgInvalidBody    = "Invalid request body"
	msgMissingToken   = "Missing authorization token"
	msgInvalidToken   = "Invalid authorization token"
	msgForbidden      = "Subject is not permitted to upload"
	msgSignFailed     = "Failed to generate signed URL"
	msgUnexpected     = "An unexpected error occurred"
)

// HandleRequest authenticates the caller when configured, validates
// the request, and responds with a signed upload URL. Every failure is
// classified here; nothing escapes the handler boundary.
func (h *Upload) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {

	log := h.logger().WithField("path", req.Path)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Unexpected error")
			resp, err = errorResponse(500, msgUnexpected)
		}
	}()

	if h.Verifier != nil {
		token := bearerToken(req)
		if token == "" {
			log.Info("Missing bearer token")
			return errorResponse(401, msgMissingToken)
		}
		claim, err := h.Verifier.Verify(ctx, token)
		if err != nil {
			log.WithError(err).Info("Verification failed")
			if errors.Is(err, identity.ErrUnauthorizedSubject) {
				return errorResponse(403, msgForbidden)
			}
			return errorResponse(401, msgInvalidToken)
		}
		log = log.WithField("subject", claim.Subject)
	}

	var request sign.UploadRequest
	if err := json.Unmarshal([]byte(req.Body), &request); err != nil {
		log.WithError(err).Info("Failed to unmarshal request body")
		return errorResponse(400, msgInvalidBody)
	}

	if err := sign.ValidateKey(request.Key); err != nil {
		log.Info("Invalid or missing key parameter")
		return errorResponse(400, msgMissingKey)
	}

	expiry, err := sign.ParseExpiry(request.Expires)
	if err != nil {
		log.WithError(err).Info("Invalid expires parameter")
		return errorResponse(400, msgInvalidExpires)
	}

	ttl := expiry.TTL
	if expiry.Unlimited {
		// SigV4 has no notion of a URL that never expires
		ttl = store.MaxPresignAge
	}

	url, err := h.Store.SignPut(ctx, request.Key, request.FileType, ttl)
	if err != nil {
		log.WithError(err).Error("Failed to generate signed URL")
		return errorResponse(500, msgSignFailed)
	}

	log.WithFields(logrus.Fields{
		"key":     request.Key,
		"expires": request.Expires,
	}).Info("Signed upload URL issued")

	return respond(200, sign.UploadResponse{UploadURL: url, Key: request.Key})
}

func (h *Upload) logger() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}

// respond marshals the body and attaches the open cross-origin header
// that every response carries, success and error alike
func respond(status int, body interface{}) (events.APIGatewayProxyResponse, error) {
	js, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    corsHeaders(),
			Body:       `{"message":"An unexpected error occurred"}`,
		}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(js),
	}, nil
}

func errorResponse(status int, message string) (events.APIGatewayProxyResponse, error) {
	return respond(status, sign.ErrorResponse{Message: message})
}

func corsHeaders() map[string]string {
	return map[string]string{"Access-Control-Allow-Origin": "*"}
}

// bearerToken extracts the token from a "Bearer <token>" header
func bearerToken(req events.APIGatewayProxyRequest) string {
	authz := req.Headers["Authorization"]
	if authz == "" {
		authz = req.Headers["authorization"]
	}
	parts := strings.Split(authz, " ")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return ""
}
