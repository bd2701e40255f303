package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion gates the on-disk layout. There is no migration path:
// the archive is derived data, so a mismatch asks the operator to delete
// the database and re-run.
const schemaVersion = 1

// ErrSchemaMismatch reports a run database written by a different
// schema version.
var ErrSchemaMismatch = errors.New("run database schema mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	version, fresh, err := s.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if fresh {
		return s.createSchema(ctx)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: found version %d, want %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// currentSchemaVersion reports the stored version, or fresh=true when the
// database has no schema yet.
func (s *Store) currentSchemaVersion(ctx context.Context) (version int, fresh bool, err error) {
	var tables int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables)
	if err != nil {
		return 0, false, fmt.Errorf("inspect run database: %w", err)
	}
	if tables == 0 {
		return 0, true, nil
	}
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, false, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
