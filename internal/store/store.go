package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"
)

// Store is the SQLite-backed archive of reconciliation runs and their
// per-transaction match results.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the run database under the configured data directory,
// creating directories and schema as needed.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "runs.db"))
}

// OpenPath opens the run database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", runDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// runDSN applies the connection pragmas in the DSN so every pooled
// connection gets them, not just the first.
func runDSN(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(ON)")
	q.Add("_pragma", "busy_timeout(5000)")
	return dbPath + "?" + q.Encode()
}

// Path returns the database file path without the DSN parameters.
func (s *Store) Path() string {
	return s.path
}

// Close is safe on a nil Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const (
	sqliteBusyCode = 5

	busyAttempts = 5
	busyBaseWait = 10 * time.Millisecond
	busyMaxWait  = 200 * time.Millisecond
)

// retryOnBusy re-runs op with doubling backoff while SQLite reports the
// database locked. Non-busy errors return immediately.
func retryOnBusy(ctx context.Context, op func() error) error {
	wait := busyBaseWait
	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil || !isSQLiteBusy(err) || attempt == busyAttempts {
			return err
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		if wait *= 2; wait > busyMaxWait {
			wait = busyMaxWait
		}
	}
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY") ||
		strings.Contains(err.Error(), "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
