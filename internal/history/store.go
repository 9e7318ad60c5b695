package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/sqlutil"
)

// RunStatus is the terminal state recorded for a run.
type RunStatus string

const (
	// RunStatusCompleted marks a run that produced a report, possibly with
	// per-path errors or unreachable targets.
	RunStatusCompleted RunStatus = "completed"

	// RunStatusFailed marks a run aborted by an orchestration failure.
	RunStatusFailed RunStatus = "failed"
)

// RunRecord is one row in the run-history table.
type RunRecord struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	TargetsScanned    int
	MatchingFiles     int
	SearchErrors      int
	TransportFailures int
	Status            RunStatus
	FailedStage       string
	ReportPath        string
}

// Store reads and writes run-history rows.
type Store struct {
	db     *sql.DB
	table  string
	logger *logger.Logger
}

// NewStore creates a Store over the given connection. The table name comes
// from configuration, so it is validated and quoted before use in SQL.
func NewStore(db *sql.DB, table string, log *logger.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	quoted, err := sqlutil.QuoteIdentifierSafe(table)
	if err != nil {
		return nil, fmt.Errorf("invalid history table name: %w", err)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Store{db: db, table: quoted, logger: log}, nil
}

// InitSchema creates the run-history table if it does not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		targets_scanned INT NOT NULL,
		matching_files INT NOT NULL,
		search_errors INT NOT NULL,
		transport_failures INT NOT NULL,
		status VARCHAR(16) NOT NULL,
		failed_stage VARCHAR(64) NOT NULL DEFAULT '',
		report_path VARCHAR(1024) NOT NULL DEFAULT ''
	)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize history table: %w", err)
	}
	return nil
}

// RecordRun inserts one run record.
func (s *Store) RecordRun(ctx context.Context, record RunRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, started_at, finished_at, targets_scanned, matching_files,
		 search_errors, transport_failures, status, failed_stage, report_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.StartedAt,
		record.FinishedAt,
		record.TargetsScanned,
		record.MatchingFiles,
		record.SearchErrors,
		record.TransportFailures,
		string(record.Status),
		record.FailedStage,
		record.ReportPath,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", record.ID, err)
	}

	s.logger.Debugw("Run recorded in history",
		"id", record.ID,
		"status", record.Status,
	)
	return nil
}

// RecentRuns returns up to limit most recent run records, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT id, started_at, finished_at, targets_scanned,
		matching_files, search_errors, transport_failures, status,
		failed_stage, report_path
		FROM %s ORDER BY started_at DESC LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var status string
		if err := rows.Scan(
			&record.ID,
			&record.StartedAt,
			&record.FinishedAt,
			&record.TargetsScanned,
			&record.MatchingFiles,
			&record.SearchErrors,
			&record.TransportFailures,
			&status,
			&record.FailedStage,
			&record.ReportPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		record.Status = RunStatus(status)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run history: %w", err)
	}

	return records, nil
}
