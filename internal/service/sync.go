package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/normalize"
)

// SyncOptions controls one sync run.
type SyncOptions struct {
	// MaxItems bounds the page fetched from the provider. Zero means the
	// configured default.
	MaxItems int
	// Force bypasses deduplication. It never updates or deletes prior rows;
	// repeated forced runs accumulate duplicates by design, and read paths
	// order by recency.
	Force bool
}

// SyncService coordinates fetch, normalize, dedup and persist for one
// provider. It is insert-only: existing rows are never updated or deleted,
// so manual admin edits are never clobbered.
type SyncService struct {
	source     Source
	content    ContentStore
	syncState  SyncStateStore
	publisher  Publisher
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	maxItems   int
}

func NewSyncService(
	source Source,
	content ContentStore,
	syncState SyncStateStore,
	publisher Publisher,
	normalizer *normalize.Normalizer,
	logger *slog.Logger,
	defaultMaxItems int,
) *SyncService {
	if defaultMaxItems <= 0 {
		defaultMaxItems = 50
	}
	return &SyncService{
		source:     source,
		content:    content,
		syncState:  syncState,
		publisher:  publisher,
		normalizer: normalizer,
		logger:     logger.With("source", source.ID()),
		maxItems:   defaultMaxItems,
	}
}

// Source returns the provider this service syncs from.
func (s *SyncService) Source() Source { return s.source }

// Sync runs one fetch-normalize-dedup-persist pass and returns its report.
// A provider fetch failure or a failure to load the existing set aborts the
// whole run; insert failures are isolated per item and only counted.
func (s *SyncService) Sync(ctx context.Context, opts SyncOptions) (*domain.SyncReport, error) {
	startTime := time.Now()
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = s.maxItems
	}

	s.logger.Info("starting sync",
		"source_name", s.source.Name(),
		"max_items", maxItems,
		"force", opts.Force,
	)

	rawItems, err := s.source.FetchPage(ctx, maxItems, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	s.logger.Info("fetched items from source", "count", len(rawItems))

	// Existing rows are read once, up front. Concurrent syncs against the
	// same table may therefore both insert a candidate; accepted limitation.
	existing, err := s.content.List(ctx, s.source.Kind())
	if err != nil {
		return nil, fmt.Errorf("load existing records: %w", err)
	}

	report := &domain.SyncReport{
		Provider:     s.source.ID(),
		TotalFetched: len(rawItems),
	}

	for _, raw := range rawItems {
		record := s.normalizeItem(raw)

		if !opts.Force && IsDuplicate(&record, raw.VideoID, existing) {
			report.Skipped++
			continue
		}

		if err := s.content.Insert(ctx, s.source.Kind(), &record); err != nil {
			report.Failed++
			s.logger.Warn("insert failed", "id", record.ID, "error", err)
			continue
		}

		report.Inserted++
		report.Items = append(report.Items, domain.SyncedItem{ID: record.ID, Title: record.Title})
		// keep the in-memory set current so duplicates within one page
		// are still caught
		existing = append(existing, record)

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, "sync-insert", &record); err != nil {
				s.logger.Warn("publish failed", "id", record.ID, "error", err)
			}
		}
	}

	if err := s.updateSyncState(ctx, report); err != nil {
		return report, fmt.Errorf("update sync state: %w", err)
	}

	report.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"fetched", report.TotalFetched,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration,
	)

	return report, nil
}

func (s *SyncService) normalizeItem(raw domain.MediaItem) domain.ContentRecord {
	switch s.source.Kind() {
	case domain.KindVlog:
		return s.normalizer.Video(raw)
	default:
		return s.normalizer.Photo(raw)
	}
}

func (s *SyncService) updateSyncState(ctx context.Context, report *domain.SyncReport) error {
	state, err := s.syncState.Get(ctx, s.source.ID())
	if err != nil {
		return err
	}

	state.SourceID = s.source.ID()
	state.LastSyncedAt = time.Now()
	state.TotalSynced += int64(report.Inserted)

	return s.syncState.Update(ctx, state)
}
