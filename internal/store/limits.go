package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Limits is the Postgres-backed model.LimitsTable: a flat key/value cache
// of tunables (level bands keyed "episode:difficulty:min"/"...max", slot
// counts, etc.), refreshed wholesale on admin command.
type Limits struct {
	pool *pgxpool.Pool

	mu    sync.RWMutex
	cache map[string]int
}

// NewLimits returns a Limits with an empty cache; call Refresh before
// first use.
func NewLimits(s *Store) *Limits {
	return &Limits{pool: s.pool, cache: make(map[string]int)}
}

// Int implements model.LimitsTable: fallback is returned for an unknown
// key rather than an error, per §1 "assume provided, tolerate absence".
func (l *Limits) Int(key string, fallback int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.cache[key]; ok {
		return v
	}
	return fallback
}

// Refresh reloads the level-limits table from Postgres into the flat
// "episode:difficulty:min"/"episode:difficulty:max" keyspace.
func (l *Limits) Refresh(ctx context.Context) error {
	rows, err := l.pool.Query(ctx, `SELECT episode, difficulty, min_level, max_level FROM level_limits`)
	if err != nil {
		return fmt.Errorf("store: loading level limits: %w", err)
	}
	defer rows.Close()

	next := make(map[string]int)
	for rows.Next() {
		var episode, difficulty, min, max int
		if err := rows.Scan(&episode, &difficulty, &min, &max); err != nil {
			return fmt.Errorf("store: scanning level limit row: %w", err)
		}
		next[fmt.Sprintf("%d:%d:min", episode, difficulty)] = min
		next[fmt.Sprintf("%d:%d:max", episode, difficulty)] = max
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: reading level limits: %w", err)
	}

	l.mu.Lock()
	l.cache = next
	l.mu.Unlock()
	return nil
}
