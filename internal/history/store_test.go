package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db, "scan_runs", nil)
	require.NoError(t, err)
	return store, mock
}

func TestNewStore(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := NewStore(nil, "scan_runs", nil)
		assert.Error(t, err)
	})

	t.Run("invalid table name", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = NewStore(db, "scan runs; DROP", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid history table name")
	})
}

func TestStore_InitSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `scan_runs`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordRun(t *testing.T) {
	store, mock := newMockStore(t)

	record := RunRecord{
		ID:                "2b6e9c1a-1111-2222-3333-444455556666",
		StartedAt:         time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		FinishedAt:        time.Date(2026, 8, 30, 6, 2, 0, 0, time.UTC),
		TargetsScanned:    8,
		MatchingFiles:     42,
		SearchErrors:      1,
		TransportFailures: 2,
		Status:            RunStatusCompleted,
		ReportPath:        "/srv/reports/gosweep-20260830-060000.xlsx",
	}

	mock.ExpectExec("INSERT INTO `scan_runs`").
		WithArgs(
			record.ID,
			record.StartedAt,
			record.FinishedAt,
			record.TargetsScanned,
			record.MatchingFiles,
			record.SearchErrors,
			record.TransportFailures,
			"completed",
			"",
			record.ReportPath,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.RecordRun(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordRun_InsertFails(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO `scan_runs`").
		WillReturnError(fmt.Errorf("connection lost"))

	err := store.RecordRun(context.Background(), RunRecord{ID: "run-1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record run run-1")
}

func TestStore_RecentRuns(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{
		"id", "started_at", "finished_at", "targets_scanned",
		"matching_files", "search_errors", "transport_failures",
		"status", "failed_stage", "report_path",
	}
	started := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow("run-2", started.Add(time.Hour), started.Add(time.Hour+time.Minute), 5, 10, 0, 0, "completed", "", "/srv/r2.xlsx").
		AddRow("run-1", started, started.Add(time.Minute), 5, 0, 0, 0, "failed", "resolve targets", "")

	mock.ExpectQuery("SELECT id, started_at, finished_at").
		WithArgs(2).
		WillReturnRows(rows)

	records, err := store.RecentRuns(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-2", records[0].ID)
	assert.Equal(t, RunStatusCompleted, records[0].Status)
	assert.Equal(t, RunStatusFailed, records[1].Status)
	assert.Equal(t, "resolve targets", records[1].FailedStage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildDSN(t *testing.T) {
	cfg := testHistoryConfig()

	dsn := BuildDSN(cfg)
	assert.Contains(t, dsn, "sweep:secret@tcp(db.example.com:3306)/inventory")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=preferred")

	cfg.TLS = "disable"
	assert.Contains(t, BuildDSN(cfg), "tls=false")

	cfg.TLS = "required"
	assert.Contains(t, BuildDSN(cfg), "tls=true")
}
