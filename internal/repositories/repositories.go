// package repositories provides sqlite persistence for play and upload history.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// historyTables are the tables with a companion <table>_sequence counter.
var historyTables = map[string]bool{"plays": true, "uploads": true}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give history rows a stable insertion order independent of their UUIDs and timestamps.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	if !historyTables[table] {
		return 0, fmt.Errorf("no sequence for table %q", table)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
