package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tagstream/internal/models"
	"github.com/desertthunder/tagstream/internal/shared"
)

// PlayRepository stores [models.PlayRecord] rows. It implements tasks.PlayRecorder.
type PlayRepository struct {
	db *sql.DB
}

// NewPlayRepository creates a new PlayRepository with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db}
}

// PlayCount aggregates plays of one song.
type PlayCount struct {
	SongID   string
	Title    string
	Count    int
	LastPlay time.Time
}

// RecordPlay inserts record with a generated ID and sequence.
func (r *PlayRepository) RecordPlay(ctx context.Context, record *models.PlayRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "plays")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO plays (id, sequence, song_id, title, tag_key, stream_url, auto, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		record.SongID(),
		record.Title(),
		record.TagKey(),
		record.StreamURL(),
		record.Auto(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	record.SetID(id)
	return nil
}

// Get retrieves a play by ID
func (r *PlayRepository) Get(ctx context.Context, id string) (*models.PlayRecord, error) {
	query := `
		SELECT id, song_id, title, tag_key, stream_url, auto, created_at
		FROM plays
		WHERE id = ?
	`

	record, err := scanPlay(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("play not found: %s", id)
	}
	return record, err
}

// Recent returns the latest plays, newest first. limit <= 0 returns all.
func (r *PlayRepository) Recent(ctx context.Context, limit int) ([]*models.PlayRecord, error) {
	query := `
		SELECT id, song_id, title, tag_key, stream_url, auto, created_at
		FROM plays
		ORDER BY sequence DESC
	` + limitClause(limit)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	records := []*models.PlayRecord{}
	for rows.Next() {
		record, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// MostPlayed returns songs ordered by play count, then by most recent play.
func (r *PlayRepository) MostPlayed(ctx context.Context, limit int) ([]PlayCount, error) {
	query := `
		SELECT song_id, MAX(title), COUNT(*) AS plays, MAX(created_at) AS last_play, MAX(sequence) AS last_seq
		FROM plays
		GROUP BY song_id
		ORDER BY plays DESC, last_seq DESC
	` + limitClause(limit)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query play counts: %w", err)
	}
	defer rows.Close()

	counts := []PlayCount{}
	for rows.Next() {
		var (
			c       PlayCount
			last    sql.NullString
			lastSeq int
		)
		if err := rows.Scan(&c.SongID, &c.Title, &c.Count, &last, &lastSeq); err != nil {
			return nil, fmt.Errorf("failed to scan play count: %w", err)
		}
		if last.Valid {
			c.LastPlay = parseTimestamp(last.String)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlay(row scanner) (*models.PlayRecord, error) {
	var (
		id        string
		songID    string
		title     string
		tagKey    string
		streamURL string
		auto      bool
		createdAt time.Time
	)

	if err := row.Scan(&id, &songID, &title, &tagKey, &streamURL, &auto, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan play: %w", err)
	}

	return models.RestorePlayRecord(id, songID, title, tagKey, streamURL, auto, createdAt), nil
}

// parseTimestamp reads aggregate timestamps, which sqlite returns as text.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
