package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
)

// ErrRunNotFound is returned when a run id does not exist in the database.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one row of run history.
type RunRecord struct {
	RunID                 string
	Platform              string
	Source                string
	RunDate               time.Time
	TotalTransactions     int
	MatchedTransactions   int
	UnmatchedTransactions int
	RequiresReview        int
	HighConfidence        int
	MediumConfidence      int
	LowConfidence         int
	ProcessingTime        time.Duration
}

// MatchRate returns the matched fraction in [0, 1], or 0 for empty runs.
func (r RunRecord) MatchRate() float64 {
	if r.TotalTransactions == 0 {
		return 0
	}
	return float64(r.MatchedTransactions) / float64(r.TotalTransactions)
}

// SaveRun persists a run summary and every match result in one transaction.
func (s *Store) SaveRun(ctx context.Context, summary report.Summary) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (
                run_id, platform, source, run_date,
                total_transactions, matched_transactions, unmatched_transactions, requires_review,
                high_confidence, medium_confidence, low_confidence,
                processing_ms, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID,
			summary.Platform,
			summary.Source,
			summary.RunDate.UTC().Format(time.RFC3339Nano),
			summary.TotalTransactions,
			summary.MatchedTransactions,
			summary.UnmatchedTransactions,
			summary.RequiresReview,
			summary.ConfidenceDistribution[matching.BandHigh],
			summary.ConfidenceDistribution[matching.BandMedium],
			summary.ConfidenceDistribution[matching.BandLow],
			summary.ProcessingTime.Milliseconds(),
			now,
		); err != nil {
			return fmt.Errorf("insert run %s: %w", summary.RunID, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO match_results (
                run_id, transaction_id, client_id, confidence_score,
                match_method, details_json,
                customer_email, amount, transaction_date, description,
                is_matched, requires_review
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare result insert: %w", err)
		}
		defer stmt.Close()

		for _, result := range summary.Results {
			detailsJSON, err := json.Marshal(result.Details)
			if err != nil {
				return fmt.Errorf("marshal details for %s: %w", result.TransactionID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				summary.RunID,
				result.TransactionID,
				nullableString(result.ClientID),
				result.ConfidenceScore,
				string(result.Method),
				string(detailsJSON),
				result.Source.Email,
				result.Source.Amount.String(),
				formatTransactionDate(result.Source.Date),
				result.Source.Description,
				boolToInt(result.IsMatched),
				boolToInt(result.RequiresReview),
			); err != nil {
				return fmt.Errorf("insert result %s: %w", result.TransactionID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run %s: %w", summary.RunID, err)
		}
		return nil
	})
}

const runColumns = `run_id, platform, source, run_date,
    total_transactions, matched_transactions, unmatched_transactions, requires_review,
    high_confidence, medium_confidence, low_confidence, processing_ms`

// ListRuns returns run history ordered newest first. A limit of zero or
// less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY run_date DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// GetRun returns a single run by id.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	record, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunRecord{}, err
	}
	return record, nil
}

// ResultsForRun returns every match result recorded for a run, in insertion
// order. When reviewOnly is set only results flagged for review are returned.
func (s *Store) ResultsForRun(ctx context.Context, runID string, reviewOnly bool) ([]matching.MatchResult, error) {
	ctx = ensureContext(ctx)

	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	query := `SELECT transaction_id, client_id, confidence_score, match_method,
        details_json, customer_email, amount, transaction_date, description,
        is_matched, requires_review
        FROM match_results WHERE run_id = ?`
	args := []any{runID}
	if reviewOnly {
		query += " AND requires_review = 1"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []matching.MatchResult
	for rows.Next() {
		var (
			result      matching.MatchResult
			clientID    sql.NullString
			method      string
			detailsJSON sql.NullString
			amount      string
			txnDate     string
			isMatched   int
			review      int
		)
		if err := rows.Scan(&result.TransactionID, &clientID, &result.ConfidenceScore,
			&method, &detailsJSON,
			&result.Source.Email, &amount, &txnDate, &result.Source.Description,
			&isMatched, &review); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		result.ClientID = clientID.String
		result.Method = matching.Method(method)
		result.IsMatched = isMatched != 0
		result.RequiresReview = review != 0
		if amount != "" {
			parsed, err := decimal.NewFromString(amount)
			if err != nil {
				return nil, fmt.Errorf("parse amount for %s: %w", result.TransactionID, err)
			}
			result.Source.Amount = parsed
		}
		if txnDate != "" {
			parsed, err := time.Parse(transactionDateLayout, txnDate)
			if err != nil {
				return nil, fmt.Errorf("parse transaction date for %s: %w", result.TransactionID, err)
			}
			result.Source.Date = parsed
		}
		if detailsJSON.Valid && detailsJSON.String != "" {
			if err := json.Unmarshal([]byte(detailsJSON.String), &result.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details for %s: %w", result.TransactionID, err)
			}
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		record       RunRecord
		runDate      string
		processingMS int64
	)
	err := row.Scan(
		&record.RunID,
		&record.Platform,
		&record.Source,
		&runDate,
		&record.TotalTransactions,
		&record.MatchedTransactions,
		&record.UnmatchedTransactions,
		&record.RequiresReview,
		&record.HighConfidence,
		&record.MediumConfidence,
		&record.LowConfidence,
		&processingMS,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run row: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, runDate)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse run date %q: %w", runDate, err)
	}
	record.RunDate = parsed
	record.ProcessingTime = time.Duration(processingMS) * time.Millisecond
	return record, nil
}

// transactionDateLayout is date-only: the archive keeps what review
// sheets carry, and no source provides a meaningful time of day.
const transactionDateLayout = "2006-01-02"

func formatTransactionDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.UTC().Format(transactionDateLayout)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
