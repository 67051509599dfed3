package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// ContentInput is the validated admin payload for create and update.
type ContentInput struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Description string   `json:"description" validate:"max=5000"`
	URL         string   `json:"url" validate:"required"`
	Alt         string   `json:"alt" validate:"max=300"`
	Category    string   `json:"category" validate:"max=100"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	AuthorName  string   `json:"authorName" validate:"max=200"`
	AuthorURL   string   `json:"authorUrl" validate:"omitempty,url"`
	Width       int      `json:"width" validate:"min=0"`
	Height      int      `json:"height" validate:"min=0"`
	DownloadURL string   `json:"downloadUrl"`
	Platform    string   `json:"platform" validate:"max=100"`
}

// ContentService serves the admin CRUD operations and the public listing
// read paths. Admin writes are the only mutations allowed on existing rows.
type ContentService struct {
	content     ContentStore
	txManager   TransactionManager
	publisher   Publisher
	vlogCache   VlogCache
	validate    *validator.Validate
	logger      *slog.Logger
	readTimeout time.Duration
}

func NewContentService(
	content ContentStore,
	txManager TransactionManager,
	publisher Publisher,
	vlogCache VlogCache,
	logger *slog.Logger,
	readTimeout time.Duration,
) *ContentService {
	if readTimeout <= 0 {
		readTimeout = 5 * time.Second
	}
	return &ContentService{
		content:     content,
		txManager:   txManager,
		publisher:   publisher,
		vlogCache:   vlogCache,
		validate:    validator.New(),
		logger:      logger,
		readTimeout: readTimeout,
	}
}

// List returns all records of a kind, newest first. The vlog path is bounded
// by the read timeout and degrades to the cached last-known-good list so the
// page stays usable during a store outage; other kinds surface the error.
func (s *ContentService) List(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	if kind != domain.KindVlog || s.vlogCache == nil {
		return s.content.List(ctx, kind)
	}

	readCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	records, err := s.content.List(readCtx, kind)
	if err == nil {
		if cacheErr := s.vlogCache.Put(ctx, records); cacheErr != nil {
			s.logger.Warn("vlog cache refresh failed", "error", cacheErr)
		}
		return records, nil
	}

	s.logger.Warn("vlog list degraded to cache", "error", err)

	cached, cacheErr := s.vlogCache.Get(ctx)
	if cacheErr != nil || len(cached) == 0 {
		return nil, err
	}
	return cached, nil
}

// Create validates the input and inserts a new native record.
func (s *ContentService) Create(ctx context.Context, kind domain.Kind, input ContentInput) (*domain.ContentRecord, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	record := input.toRecord(kind)
	record.ID = "native-" + uuid.NewString()
	record.Source = domain.SourceNative
	record.CreatedAt = time.Now().UTC()

	if err := s.content.Insert(ctx, kind, &record); err != nil {
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}

	s.publish(ctx, "create", &record)
	return &record, nil
}

// Update validates the input and rewrites an existing record inside a
// transaction, so concurrent admin edits cannot interleave the
// read-modify-write.
func (s *ContentService) Update(ctx context.Context, kind domain.Kind, id string, input ContentInput) (*domain.ContentRecord, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var updated *domain.ContentRecord
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.content.Get(txCtx, kind, id)
		if err != nil {
			return err
		}

		record := input.toRecord(kind)
		record.ID = current.ID
		record.Source = current.Source
		record.CreatedAt = current.CreatedAt

		if err := s.content.Update(txCtx, kind, &record); err != nil {
			return fmt.Errorf("update %s %s: %w", kind, id, err)
		}
		updated = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "update", updated)
	return updated, nil
}

// Delete removes a record.
func (s *ContentService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	record, err := s.content.Get(ctx, kind, id)
	if err != nil {
		return err
	}

	if err := s.content.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}

	s.publish(ctx, "delete", record)
	return nil
}

func (s *ContentService) publish(ctx context.Context, action string, record *domain.ContentRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, action, record); err != nil {
		s.logger.Warn("publish failed", "action", action, "id", record.ID, "error", err)
	}
}

func (s *ContentService) validateInput(input ContentInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on %q", fe.Tag()),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

func (in ContentInput) toRecord(kind domain.Kind) domain.ContentRecord {
	alt := in.Alt
	if alt == "" {
		alt = in.Title
	}
	return domain.ContentRecord{
		Kind:        kind,
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Alt:         alt,
		Category:    in.Category,
		Tags:        in.Tags,
		AuthorName:  in.AuthorName,
		AuthorURL:   in.AuthorURL,
		Width:       in.Width,
		Height:      in.Height,
		DownloadURL: in.DownloadURL,
		Platform:    in.Platform,
	}
}
