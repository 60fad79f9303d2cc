package store

import (
	"context"
	"time"
)

// MaxPresignAge is the longest lifetime a signed URL may carry. SigV4
// rejects anything beyond 7 days, so requests for an unlimited expiry
// are capped here.
const MaxPresignAge = 7 * 24 * time.Hour

// Object is an entry in the store as reported by a listing
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// DeletionError describes a single key that could not be deleted
type DeletionError struct {
	Key     string
	Code    string
	Message string
}

// DeletionReport splits a batch deletion into per-key outcomes.
// Deleting a key that does not exist counts as deleted.
type DeletionReport struct {
	Deleted []string
	Failed  []DeletionError
}

// Store is an interface to sign uploads into, and reclaim space from,
// a bucket of objects
type Store interface {

	// SignPut returns a URL authorizing a single PUT of the given key
	// with the given content type. The store rejects uploads with a
	// different key or declared content type.
	SignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// List all objects under the prefix. Listings are exhaustive:
	// implementations must follow pagination to the end.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Delete the given keys. Per-key failures land in the report and
	// are not an error; an error means a store call itself failed.
	Delete(ctx context.Context, keys []string) (DeletionReport, error)
}
