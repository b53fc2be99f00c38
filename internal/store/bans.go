package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/psoserv/blockserver/internal/model"
)

// BanStore is the Postgres-backed model.BanStore: each check is a live
// query, since a ban can be issued by another ship process at any time.
type BanStore struct {
	pool *pgxpool.Pool
}

// NewBanStore wraps s's pool as a model.BanStore.
func NewBanStore(s *Store) *BanStore {
	return &BanStore{pool: s.pool}
}

// Check implements model.BanStore.
func (b *BanStore) Check(ctx context.Context, guildcard uint32) (*model.BanEntry, error) {
	var entry model.BanEntry
	var expires *time.Time
	err := b.pool.QueryRow(ctx,
		`SELECT guildcard, reason, expires_at FROM bans WHERE guildcard = $1`, guildcard,
	).Scan(&entry.Guildcard, &entry.Reason, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: checking ban for %d: %w", guildcard, err)
	}
	if expires != nil {
		entry.Until = *expires
	}
	return &entry, nil
}

// Ban inserts or refreshes a ban row. An admin-triggered write, not on any
// hot path.
func (b *BanStore) Ban(ctx context.Context, guildcard uint32, reason string, until *time.Time) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO bans (guildcard, reason, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (guildcard) DO UPDATE SET reason = $2, expires_at = $3`,
		guildcard, reason, until,
	)
	if err != nil {
		return fmt.Errorf("store: banning %d: %w", guildcard, err)
	}
	return nil
}

// Unban removes a ban row.
func (b *BanStore) Unban(ctx context.Context, guildcard uint32) error {
	_, err := b.pool.Exec(ctx, `DELETE FROM bans WHERE guildcard = $1`, guildcard)
	if err != nil {
		return fmt.Errorf("store: unbanning %d: %w", guildcard, err)
	}
	return nil
}
