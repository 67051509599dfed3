package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// Source is an external media provider client.
type Source interface {
	ID() string
	Name() string
	Kind() domain.Kind
	FetchPage(ctx context.Context, pageSize, page int) ([]domain.MediaItem, error)
	Probe(ctx context.Context) (int, error)
}

// ContentStore is the read/write gateway to the content tables.
type ContentStore interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error)
	Get(ctx context.Context, kind domain.Kind, id string) (*domain.ContentRecord, error)
	Insert(ctx context.Context, kind domain.Kind, record *domain.ContentRecord) error
	Update(ctx context.Context, kind domain.Kind, record *domain.ContentRecord) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
}

// SyncStateStore tracks per-provider sync bookkeeping.
type SyncStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

// TransactionManager runs fn inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher emits content-change events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, action string, record *domain.ContentRecord) error
	Close() error
}

// VlogCache holds a last-known-good copy of the vlog listing for the read
// path's fallback chain.
type VlogCache interface {
	Put(ctx context.Context, records []domain.ContentRecord) error
	Get(ctx context.Context) ([]domain.ContentRecord, error)
}
