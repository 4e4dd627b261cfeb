package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/linkpreview-service/internal/entity"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
	CREATE TABLE IF NOT EXISTS previews (
		id          BIGSERIAL PRIMARY KEY,
		source_url  TEXT NOT NULL,
		result      JSONB NOT NULL,
		fetched_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS previews_source_url_fetched_at_idx
		ON previews (source_url, fetched_at DESC);
`

// PreviewRepoImpl provides a concrete implementation for the PreviewStore interface using PostgreSQL.
type PreviewRepoImpl struct {
	db DB
}

// NewPreviewRepo creates a new instance of PreviewRepoImpl.
func NewPreviewRepo(db DB) *PreviewRepoImpl {
	return &PreviewRepoImpl{db: db}
}

// Migrate creates the previews table if it does not exist.
func (r *PreviewRepoImpl) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Save inserts a record and sets its ID.
func (r *PreviewRepoImpl) Save(ctx context.Context, record *entity.PreviewRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO previews (source_url, result, fetched_at)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query, record.SourceURL, resultJSON, record.FetchedAt).Scan(&record.ID)
}

// FindByURL retrieves the latest records for url, newest first.
func (r *PreviewRepoImpl) FindByURL(ctx context.Context, url string, limit int) ([]*entity.PreviewRecord, error) {
	query := `
		SELECT id, source_url, result, fetched_at
		FROM previews
		WHERE source_url = $1
		ORDER BY fetched_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, url, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*entity.PreviewRecord{}
	for rows.Next() {
		var rec entity.PreviewRecord
		var resultJSON []byte
		if err := rows.Scan(&rec.ID, &rec.SourceURL, &resultJSON, &rec.FetchedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
