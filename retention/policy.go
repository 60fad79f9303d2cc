package retention

import (
	"time"

	"github.com/stashbin/stashbin/store"
)

// DefaultMaxAge is how long uploads are kept before the sweep removes them
const DefaultMaxAge = 24 * time.Hour

// Policy decides which objects are old enough to reclaim
type Policy struct {
	MaxAge time.Duration
}

// Eligible reports whether the object was last modified strictly before
// now minus the retention window. An object exactly at the boundary is
// kept.
func (p Policy) Eligible(obj store.Object, now time.Time) bool {
	return obj.LastModified.Before(now.Add(-p.MaxAge))
}
