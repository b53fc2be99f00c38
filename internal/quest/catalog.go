// Package quest implements catalog reload, listing with per-client
// fallback resolution, and chunked delivery (§4.6).
package quest

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/psoserv/blockserver/internal/model"
)

// Loader parses the on-disk quest catalog into qid -> entry. The concrete
// directory layout and any compressed-container unpacking are external
// collaborators per §1; Loader is what a deployment plugs in.
type Loader interface {
	Load(ctx context.Context) (map[uint32]*model.QuestMapEntry, error)
}

// Reloader guards catalog reloads with a write lock held for the whole
// swap (§4.6) and collapses concurrent admin-triggered reload requests
// into one Load call via singleflight, so a burst of GM "reload quests"
// commands doesn't re-parse the catalog redundantly.
type Reloader struct {
	catalog *model.QuestCatalog
	loader  Loader

	group singleflight.Group
	mu    sync.Mutex
	last  error
}

// NewReloader creates a Reloader for catalog, using loader to parse it.
func NewReloader(catalog *model.QuestCatalog, loader Loader) *Reloader {
	return &Reloader{catalog: catalog, loader: loader}
}

// Reload re-parses the catalog and swaps it in. On failure the previous
// catalog remains in place and the error is reported to the caller only
// (§7 "Ship-level: failed catalog reload is reported to the requesting GM
// only; the previous catalog remains in place").
func (r *Reloader) Reload(ctx context.Context) error {
	_, err, _ := r.group.Do("reload", func() (any, error) {
		entries, err := r.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("quest: reload: %w", err)
		}
		r.catalog.Swap(entries)
		return nil, nil
	})
	r.mu.Lock()
	r.last = err
	r.mu.Unlock()
	return err
}

// LastError returns the error from the most recent Reload, if any.
func (r *Reloader) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
