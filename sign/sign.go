package sign

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExpiresUnlimited is the request token asking for no enforced expiry
const ExpiresUnlimited = "unlimited"

// ErrInvalidRequest flags client input that cannot be processed. The
// caller can recover by correcting the request.
var ErrInvalidRequest = errors.New("invalid request")

// UploadRequest asks for permission to upload one object
type UploadRequest struct {
	Key      string `json:"key"`
	Expires  string `json:"expires"`
	FileType string `json:"fileType"`
}

// UploadResponse carries the signed URL back to the caller
type UploadResponse struct {
	UploadURL string `json:"uploadURL"`
	Key       string `json:"key"`
}

// ErrorResponse is the body returned on any failure
type ErrorResponse struct {
	Message string `json:"message"`
}

// Expiry is the parsed form of the request "expires" field
type Expiry struct {
	Unlimited bool
	TTL       time.Duration
}

// ValidateKey rejects empty and whitespace-only object keys
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: missing or empty key", ErrInvalidRequest)
	}
	return nil
}

// ParseExpiry interprets the "expires" field: either the literal
// "unlimited" or a positive integer count of seconds until the signed
// URL stops working
func ParseExpiry(spec string) (Expiry, error) {
	if spec == ExpiresUnlimited {
		return Expiry{Unlimited: true}, nil
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return Expiry{}, fmt.Errorf("%w: expires must be an integer or %q",
			ErrInvalidRequest, ExpiresUnlimited)
	}
	if seconds <= 0 {
		return Expiry{}, fmt.Errorf("%w: expires must be positive", ErrInvalidRequest)
	}
	return Expiry{TTL: time.Duration(seconds) * time.Second}, nil
}
