package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GMRoster is the Postgres-backed model.GMRoster. PrivilegeOf is called on
// the session-handling hot path (every GM menu render), so the roster is
// cached in memory and refreshed only on admin command, not per lookup.
type GMRoster struct {
	pool *pgxpool.Pool

	mu    sync.RWMutex
	cache map[uint32]uint32
}

// NewGMRoster returns a GMRoster with an empty cache; call Refresh before
// first use.
func NewGMRoster(s *Store) *GMRoster {
	return &GMRoster{pool: s.pool, cache: make(map[uint32]uint32)}
}

// PrivilegeOf implements model.GMRoster from the in-memory cache.
func (r *GMRoster) PrivilegeOf(guildcard uint32) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.cache[guildcard]
	return p, ok
}

// Refresh reloads the whole roster from Postgres under a write lock held
// for the entire swap, mirroring the quest catalog's reload semantics.
func (r *GMRoster) Refresh(ctx context.Context) error {
	rows, err := r.pool.Query(ctx, `SELECT guildcard, privileges FROM gm_roster`)
	if err != nil {
		return fmt.Errorf("store: loading gm roster: %w", err)
	}
	defer rows.Close()

	next := make(map[uint32]uint32)
	for rows.Next() {
		var guildcard, priv uint32
		if err := rows.Scan(&guildcard, &priv); err != nil {
			return fmt.Errorf("store: scanning gm roster row: %w", err)
		}
		next[guildcard] = priv
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: reading gm roster: %w", err)
	}

	r.mu.Lock()
	r.cache = next
	r.mu.Unlock()
	return nil
}

// Grant sets guildcard's privilege bitset, persists it, and updates the
// cache without a full reload.
func (r *GMRoster) Grant(ctx context.Context, guildcard, privileges uint32) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO gm_roster (guildcard, privileges) VALUES ($1, $2)
		 ON CONFLICT (guildcard) DO UPDATE SET privileges = $2`,
		guildcard, privileges,
	)
	if err != nil {
		return fmt.Errorf("store: granting privileges to %d: %w", guildcard, err)
	}
	r.mu.Lock()
	r.cache[guildcard] = privileges
	r.mu.Unlock()
	return nil
}
