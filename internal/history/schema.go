package history

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// historyVersion is stored in SQLite's user_version header field. A fresh
// database reads 0.
const historyVersion = 1

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history version: %w", err)
	}
	switch version {
	case historyVersion:
		return nil
	case 0:
		var tables int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
		).Scan(&tables); err != nil {
			return fmt.Errorf("inspect history database: %w", err)
		}
		if tables == 0 {
			return s.createSchema(ctx)
		}
		return fmt.Errorf("%w: %s holds unversioned tables and is not a run history", ErrSchemaMismatch, s.path)
	default:
		return fmt.Errorf("%w: %s is at version %d, this build reads %d (move the file aside to start a new history)",
			ErrSchemaMismatch, s.path, version, historyVersion)
	}
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	// PRAGMA takes no bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", historyVersion)); err != nil {
		return fmt.Errorf("stamp history version: %w", err)
	}
	return tx.Commit()
}
