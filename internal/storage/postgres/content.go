package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// kindTables maps a content kind to its table. Each sync and each CRUD call
// touches exactly one table.
var kindTables = map[domain.Kind]string{
	domain.KindPost:  "posts",
	domain.KindVlog:  "vlogs",
	domain.KindPhoto: "photography",
}

// ContentStore reads and writes the content tables. All methods are
// transaction-aware through GetExecutor.
type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// contentRow is the scan target; tags need pq.StringArray.
type contentRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	URL         string         `db:"url"`
	Alt         string         `db:"alt"`
	Category    string         `db:"category"`
	Tags        pq.StringArray `db:"tags"`
	AuthorName  string         `db:"author_name"`
	AuthorURL   string         `db:"author_url"`
	Width       int            `db:"width"`
	Height      int            `db:"height"`
	DownloadURL string         `db:"download_url"`
	Source      string         `db:"source"`
	Platform    string         `db:"platform"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r contentRow) toDomain(kind domain.Kind) domain.ContentRecord {
	return domain.ContentRecord{
		ID:          r.ID,
		Kind:        kind,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Alt:         r.Alt,
		Category:    r.Category,
		Tags:        r.Tags,
		AuthorName:  r.AuthorName,
		AuthorURL:   r.AuthorURL,
		Width:       r.Width,
		Height:      r.Height,
		DownloadURL: r.DownloadURL,
		Source:      r.Source,
		Platform:    r.Platform,
		CreatedAt:   r.CreatedAt,
	}
}

const contentColumns = `id, title, description, url, alt, category, tags,
	author_name, author_url, width, height, download_url, source, platform, created_at`

func tableFor(kind domain.Kind) (string, error) {
	table, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return table, nil
}

// List returns every record of a kind, newest first. Forced re-syncs may
// accumulate duplicate rows; recency ordering makes the latest win on read.
func (s *ContentStore) List(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, id`, contentColumns, table)

	var rows []contentRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query); err != nil {
		return nil, err
	}

	records := make([]domain.ContentRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toDomain(kind)
	}
	return records, nil
}

// Get fetches one record by id, or domain.ErrNotFound.
func (s *ContentStore) Get(ctx context.Context, kind domain.Kind, id string) (*domain.ContentRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, contentColumns, table)

	var row contentRow
	err = sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	record := row.toDomain(kind)
	return &record, nil
}

// Insert adds a new row. Duplicate ids are rejected by the primary key, so a
// racing sync cannot silently overwrite.
func (s *ContentStore) Insert(ctx context.Context, kind domain.Kind, record *domain.ContentRecord) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		table, contentColumns)

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = GetExecutor(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.Description,
		record.URL,
		record.Alt,
		record.Category,
		pq.StringArray(record.Tags),
		record.AuthorName,
		record.AuthorURL,
		record.Width,
		record.Height,
		record.DownloadURL,
		record.Source,
		record.Platform,
		createdAt,
	)
	if err != nil {
		return &domain.PersistenceError{ID: record.ID, Err: err}
	}
	return nil
}

// Update rewrites an existing row by id.
func (s *ContentStore) Update(ctx context.Context, kind domain.Kind, record *domain.ContentRecord) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			title = $2, description = $3, url = $4, alt = $5, category = $6,
			tags = $7, author_name = $8, author_url = $9, width = $10,
			height = $11, download_url = $12, platform = $13
		WHERE id = $1`, table)

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.Description,
		record.URL,
		record.Alt,
		record.Category,
		pq.StringArray(record.Tags),
		record.AuthorName,
		record.AuthorURL,
		record.Width,
		record.Height,
		record.DownloadURL,
		record.Platform,
	)
	if err != nil {
		return &domain.PersistenceError{ID: record.ID, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a row by id.
func (s *ContentStore) Delete(ctx context.Context, kind domain.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return &domain.PersistenceError{ID: id, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
