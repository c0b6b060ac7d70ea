package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
)

// UploadRepository stores [models.UploadRecord] rows. It implements tasks.UploadRecorder.
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new UploadRepository with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// RecordUpload inserts record with a generated ID and sequence.
func (r *UploadRepository) RecordUpload(ctx context.Context, record *models.UploadRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "uploads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO uploads (id, sequence, file_name, tag_key, name, size, ok, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		record.FileName(),
		record.TagKey(),
		record.Name(),
		record.Size(),
		record.OK(),
		record.Error(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	record.SetID(id)
	return nil
}

// Recent returns the latest upload attempts, newest first. limit <= 0 returns all.
// failedOnly restricts the result to attempts that did not succeed.
func (r *UploadRepository) Recent(ctx context.Context, limit int, failedOnly bool) ([]*models.UploadRecord, error) {
	query := `
		SELECT id, file_name, tag_key, name, size, ok, error, created_at
		FROM uploads
	`
	if failedOnly {
		query += " WHERE ok = 0"
	}
	query += " ORDER BY sequence DESC" + limitClause(limit)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	records := []*models.UploadRecord{}
	for rows.Next() {
		var (
			id        string
			fileName  string
			tagKey    string
			name      string
			size      int
			ok        bool
			errMsg    string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &fileName, &tagKey, &name, &size, &ok, &errMsg, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		records = append(records, models.RestoreUploadRecord(id, fileName, tagKey, name, size, ok, errMsg, createdAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
