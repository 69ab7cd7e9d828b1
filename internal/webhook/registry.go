package webhook

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"callbridge/internal/rest"
)

// Registry associates call SIDs with the REST client that should mirror
// call-control actions for that call. Entries expire on a TTL and the
// registry refuses new entries past a fixed cap, so it cannot grow without
// bound. Callers own the registry; there is no package-level instance.
type Registry struct {
	entries    *gocache.Cache
	maxEntries int
}

const (
	defaultTTL        = 4 * time.Hour
	defaultMaxEntries = 10000
)

// NewRegistry builds a registry with the given entry TTL and size cap.
// Zero values select the defaults.
func NewRegistry(ttl time.Duration, maxEntries int) *Registry {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Registry{
		entries:    gocache.New(ttl, ttl/4),
		maxEntries: maxEntries,
	}
}

// Put records the client handling callSID. It reports false when the
// registry is at capacity and the SID is not already present; existing
// entries are always refreshed.
func (r *Registry) Put(callSID string, client *rest.Client) bool {
	if callSID == "" || client == nil {
		return false
	}
	if _, ok := r.entries.Get(callSID); !ok && r.entries.ItemCount() >= r.maxEntries {
		return false
	}
	r.entries.SetDefault(callSID, client)
	return true
}

// Get returns the client registered for callSID, if any.
func (r *Registry) Get(callSID string) (*rest.Client, bool) {
	v, ok := r.entries.Get(callSID)
	if !ok {
		return nil, false
	}
	return v.(*rest.Client), true
}

// Delete drops the entry for callSID.
func (r *Registry) Delete(callSID string) {
	r.entries.Delete(callSID)
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	return r.entries.ItemCount()
}
