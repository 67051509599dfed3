// Package cache keeps a last-known-good copy of read-path listings in an
// embedded badger store, so the site keeps rendering through a content-store
// outage. The sync path never reads from here; only display paths may fall
// back to stale or placeholder data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

const vlogKey = "vlogs:latest"

// VlogCache stores the vlog listing with a TTL. A miss after expiry degrades
// to the built-in placeholder set.
type VlogCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Config holds cache settings.
type Config struct {
	Dir string
	// InMemory runs badger without a directory; used in tests and small
	// deployments.
	InMemory bool
	TTL      time.Duration
}

func New(cfg Config, logger *slog.Logger) (*VlogCache, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &VlogCache{db: db, ttl: ttl, logger: logger}, nil
}

// Put replaces the cached listing.
func (c *VlogCache) Put(_ context.Context, records []domain.ContentRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(vlogKey), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Get returns the cached listing, or the placeholder set when the cache is
// cold or expired.
func (c *VlogCache) Get(_ context.Context) ([]domain.ContentRecord, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(vlogKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.logger.Warn("vlog cache miss, serving placeholders")
		return Placeholders(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var records []domain.ContentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return records, nil
}

// Close releases the underlying store.
func (c *VlogCache) Close() error {
	return c.db.Close()
}
