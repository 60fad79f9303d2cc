package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// SignCall records the arguments of one SignPut invocation
type SignCall struct {
	Key         string
	ContentType string
	Expiry      time.Duration
}

// Fake is an in-memory Store used in tests. It serves a fixed listing,
// records deletions, and can be primed to fail.
type Fake struct {
	mu        sync.Mutex
	objects   map[string]Object
	SignedURL string
	SignErr   error
	ListErr   error
	DeleteErr error

	// FailKeys maps keys to an error message to report per key
	FailKeys map[string]string

	SignCalls   []SignCall
	ListCalls   int
	DeleteCalls [][]string
}

// NewFake returns a Fake pre-populated with the given objects
func NewFake(objects ...Object) *Fake {
	f := &Fake{
		objects:   map[string]Object{},
		SignedURL: "https://example.com/signed",
	}
	for _, obj := range objects {
		f.objects[obj.Key] = obj
	}
	return f
}

func (f *Fake) SignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignCalls = append(f.SignCalls, SignCall{
		Key:         key,
		ContentType: contentType,
		Expiry:      expiry,
	})
	if f.SignErr != nil {
		return "", f.SignErr
	}
	return f.SignedURL, nil
}

func (f *Fake) List(ctx context.Context, prefix string) ([]Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var objects []Object
	for _, obj := range f.objects {
		if strings.HasPrefix(obj.Key, prefix) {
			objects = append(objects, obj)
		}
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key < objects[j].Key
	})
	return objects, nil
}

func (f *Fake) Delete(ctx context.Context, keys []string) (DeletionReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls = append(f.DeleteCalls, keys)
	if f.DeleteErr != nil {
		return DeletionReport{}, f.DeleteErr
	}
	var report DeletionReport
	for _, key := range keys {
		if msg, ok := f.FailKeys[key]; ok {
			report.Failed = append(report.Failed, DeletionError{
				Key:     key,
				Code:    "InternalError",
				Message: msg,
			})
			continue
		}
		// Deleting a missing key is still a successful delete
		delete(f.objects, key)
		report.Deleted = append(report.Deleted, key)
	}
	return report, nil
}

var _ Store = (*Fake)(nil)
