// Package runner coordinates a full inventory scan run: resolve targets, fan
// the scan out, aggregate, publish the report, and notify operators.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/gosweep/internal/history"
	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/notify"
	"github.com/dbsmedya/gosweep/internal/scan"
)

// Stage names used in logs, admin alerts and history records.
const (
	StageResolveTargets = "resolve targets"
	StagePrepareOutput  = "prepare output directory"
	StageDispatch       = "dispatch scan tasks"
	StagePublishReport  = "publish report"
)

// TargetResolver produces the list of computers to scan.
type TargetResolver interface {
	Resolve(ctx context.Context) ([]string, error)
}

// ReportPublisher writes the aggregated report to its output location.
type ReportPublisher interface {
	EnsureOutputDir() error
	Publish(report *scan.Report, startedAt time.Time) (string, error)
}

// Notifier delivers run summaries to operators and failure alerts to
// administrators.
type Notifier interface {
	SendSummary(ctx context.Context, summary notify.Summary) error
	SendAdminAlert(ctx context.Context, runID, stage string, cause error) error
}

// HistoryRecorder persists one record per finished run.
type HistoryRecorder interface {
	RecordRun(ctx context.Context, record history.RunRecord) error
}

// Outcome is what a completed run produced.
type Outcome struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Targets    []string
	Report     *scan.Report
	Failures   []scan.Failure
	ReportPath string
}

// Runner wires the pipeline stages together. Notifier and recorder are
// optional; a nil notifier skips mail, a nil recorder skips history.
type Runner struct {
	resolver  TargetResolver
	fanOut    *scan.FanOut
	filters   *scan.PathFilterSet
	publisher ReportPublisher
	notifier  Notifier
	recorder  HistoryRecorder
	logger    *logger.Logger
}

// NewRunner creates a Runner. resolver, fanOut, filters and publisher are
// required.
func NewRunner(
	resolver TargetResolver,
	fanOut *scan.FanOut,
	filters *scan.PathFilterSet,
	publisher ReportPublisher,
	notifier Notifier,
	recorder HistoryRecorder,
	log *logger.Logger,
) (*Runner, error) {
	if resolver == nil {
		return nil, fmt.Errorf("target resolver is nil")
	}
	if fanOut == nil {
		return nil, fmt.Errorf("fan-out is nil")
	}
	if filters == nil || filters.Len() == 0 {
		return nil, fmt.Errorf("filter set is empty")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Runner{
		resolver:  resolver,
		fanOut:    fanOut,
		filters:   filters,
		publisher: publisher,
		notifier:  notifier,
		recorder:  recorder,
		logger:    log,
	}, nil
}

// Run executes one full scan run. A failure before the fan-out (resolving
// targets, preparing the output directory) aborts the run, alerts the
// administrators at high priority and returns the error. Individual target or
// path failures never abort: they surface in the report and the counters.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	runID := uuid.NewString()
	log := r.logger.WithRun(runID)
	startedAt := time.Now()

	log.Infow("Starting inventory scan run",
		"filters", r.filters.FilterCount(),
	)

	targets, err := r.resolver.Resolve(ctx)
	if err != nil {
		return nil, r.abort(ctx, log, runID, startedAt, StageResolveTargets, err)
	}
	log.Infow("Targets resolved", "count", len(targets))

	if err := r.publisher.EnsureOutputDir(); err != nil {
		return nil, r.abort(ctx, log, runID, startedAt, StagePrepareOutput, err)
	}

	results, failures, err := r.fanOut.Run(ctx, targets, r.filters)
	if err != nil {
		return nil, r.abort(ctx, log, runID, startedAt, StageDispatch, err)
	}

	report := scan.Aggregate(results)

	reportPath, err := r.publisher.Publish(report, startedAt)
	if err != nil {
		// The scan data exists but cannot be delivered, which is as bad as
		// not running at all. Escalate like a pre-scan failure.
		return nil, r.abort(ctx, log, runID, startedAt, StagePublishReport, err)
	}
	log.Infow("Report published", "path", reportPath)

	finishedAt := time.Now()
	outcome := &Outcome{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
		Targets:    targets,
		Report:     report,
		Failures:   failures,
		ReportPath: reportPath,
	}

	r.record(ctx, log, history.RunRecord{
		ID:                runID,
		StartedAt:         startedAt,
		FinishedAt:        finishedAt,
		TargetsScanned:    report.Counters.TargetsScanned,
		MatchingFiles:     report.Counters.MatchingFiles,
		SearchErrors:      report.Counters.SearchErrors,
		TransportFailures: len(failures),
		Status:            history.RunStatusCompleted,
		ReportPath:        reportPath,
	})

	r.notifySummary(ctx, log, outcome)

	log.Infow("Inventory scan run complete",
		"duration", outcome.Duration,
		"targets_scanned", report.Counters.TargetsScanned,
		"matching_files", report.Counters.MatchingFiles,
		"search_errors", report.Counters.SearchErrors,
		"transport_failures", len(failures),
	)

	return outcome, nil
}

// abort handles an orchestration failure: record it, alert the admins at high
// priority, and return the wrapped error. A cancelled context skips the alert
// since the operator stopped the run deliberately.
func (r *Runner) abort(ctx context.Context, log *logger.Logger, runID string, startedAt time.Time, stage string, cause error) error {
	log.Errorw("Run aborted",
		"stage", stage,
		"error", cause,
	)

	cancelled := errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded)

	if !cancelled {
		r.record(ctx, log, history.RunRecord{
			ID:          runID,
			StartedAt:   startedAt,
			FinishedAt:  time.Now(),
			Status:      history.RunStatusFailed,
			FailedStage: stage,
		})

		if r.notifier != nil {
			if alertErr := r.notifier.SendAdminAlert(ctx, runID, stage, cause); alertErr != nil {
				log.Errorw("Failed to deliver admin alert",
					"stage", stage,
					"error", alertErr,
				)
			}
		}
	}

	return fmt.Errorf("%s: %w", stage, cause)
}

// record writes the run to history when a recorder is configured. History
// problems are logged and never fail the run.
func (r *Runner) record(ctx context.Context, log *logger.Logger, rec history.RunRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordRun(ctx, rec); err != nil {
		log.Warnw("Failed to record run in history", "error", err)
	}
}

// notifySummary mails the operator summary when a notifier is configured. The
// report file is attached only when it carries at least one file or error row,
// so clean empty runs stay lightweight. Notification problems are logged and
// never fail the run.
func (r *Runner) notifySummary(ctx context.Context, log *logger.Logger, outcome *Outcome) {
	if r.notifier == nil {
		return
	}

	summary := notify.Summary{
		RunID:             outcome.RunID,
		StartedAt:         outcome.StartedAt,
		Duration:          outcome.Duration,
		TargetsScanned:    outcome.Report.Counters.TargetsScanned,
		MatchingFiles:     outcome.Report.Counters.MatchingFiles,
		SearchErrors:      outcome.Report.Counters.SearchErrors,
		TransportFailures: len(outcome.Failures),
		FiltersApplied:    r.filters.FilterCount(),
	}
	if len(outcome.Report.FileRows) > 0 || len(outcome.Report.ErrorRows) > 0 {
		summary.ReportPath = outcome.ReportPath
	}

	if err := r.notifier.SendSummary(ctx, summary); err != nil {
		log.Warnw("Failed to deliver summary notification", "error", err)
	}
}
