package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// ProfileCache persists the resolved profile identifier across runs in a
// local sqlite file. The profile gate is the only writer; the resource
// services read the id to scope their calls.
type ProfileCache struct {
	db *bun.DB
}

type cachedIdentity struct {
	bun.BaseModel `bun:"table:profile_cache,alias:pc"`

	Email     string    `bun:"email,pk"`
	ProfileID int       `bun:"profile_id,notnull"`
	LoginID   string    `bun:"login_id"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Open opens (or creates) the cache file. Use ":memory:" for a throwaway
// cache.
func Open(path string) (*ProfileCache, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("opening local cache %s: %w", path, err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*cachedIdentity)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		return nil, fmt.Errorf("creating profile_cache table: %w", err)
	}

	return &ProfileCache{db: db}, nil
}

func (c *ProfileCache) Put(ctx context.Context, email string, profileID int, loginID string) error {
	entry := &cachedIdentity{
		Email:     email,
		ProfileID: profileID,
		LoginID:   loginID,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := c.db.NewInsert().
		Model(entry).
		On("CONFLICT (email) DO UPDATE").
		Set("profile_id = EXCLUDED.profile_id").
		Set("login_id = EXCLUDED.login_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Get returns the cached profile id and login id for an identity email.
// The bool is false when nothing is cached.
func (c *ProfileCache) Get(ctx context.Context, email string) (int, string, bool, error) {
	var entry cachedIdentity
	err := c.db.NewSelect().
		Model(&entry).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}
	return entry.ProfileID, entry.LoginID, true, nil
}

func (c *ProfileCache) Delete(ctx context.Context, email string) error {
	_, err := c.db.NewDelete().
		Model((*cachedIdentity)(nil)).
		Where("email = ?", email).
		Exec(ctx)
	return err
}

func (c *ProfileCache) Close() error {
	return c.db.Close()
}
