package storage

import (
	"context"
	"fmt"
)

// LoadProcessedFingerprints returns the persisted ledger, oldest first.
func (s *SQLiteStorage) LoadProcessedFingerprints(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint FROM processed_fingerprints ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fingerprints []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}
	return fingerprints, rows.Err()
}

// SaveProcessedFingerprints replaces the persisted ledger with the given
// snapshot, preserving its order. The set is bounded upstream so a full
// rewrite stays cheap.
func (s *SQLiteStorage) SaveProcessedFingerprints(ctx context.Context, fingerprints []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Positions from prior generations keep growing; only relative order
	// matters for the load path.
	if _, err := tx.ExecContext(ctx, "DELETE FROM processed_fingerprints"); err != nil {
		return fmt.Errorf("failed to clear fingerprints: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO processed_fingerprints (fingerprint) VALUES (?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, fp := range fingerprints {
		if _, err := stmt.ExecContext(ctx, fp); err != nil {
			return fmt.Errorf("failed to insert fingerprint: %w", err)
		}
	}

	return tx.Commit()
}
