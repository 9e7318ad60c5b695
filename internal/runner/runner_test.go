package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gosweep/internal/history"
	"github.com/dbsmedya/gosweep/internal/notify"
	"github.com/dbsmedya/gosweep/internal/scan"
)

type fakeResolver struct {
	targets []string
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context) ([]string, error) {
	return f.targets, f.err
}

// fakeExecutor returns a canned result per target and an error for targets
// listed in unreachable.
type fakeExecutor struct {
	unreachable map[string]bool
	files       map[string]int
}

func (f *fakeExecutor) Execute(ctx context.Context, target string, filters *scan.PathFilterSet) (*scan.Result, error) {
	if f.unreachable[target] {
		return nil, fmt.Errorf("connection refused")
	}
	result := scan.NewResult(target)
	result.PathExistence.Set("/data", true)
	for i := 0; i < f.files[target]; i++ {
		result.MatchedFiles = append(result.MatchedFiles, scan.FileRecord{
			ComputerName: target,
			Path:         fmt.Sprintf("/data/file%d.txt", i),
			SizeBytes:    int64(100 + i),
		})
	}
	return result, nil
}

type fakePublisher struct {
	ensureErr   error
	publishErr  error
	published   *scan.Report
	path        string
	ensureCalls int
}

func (f *fakePublisher) EnsureOutputDir() error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakePublisher) Publish(report *scan.Report, startedAt time.Time) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = report
	if f.path == "" {
		f.path = "/tmp/report.xlsx"
	}
	return f.path, nil
}

type fakeNotifier struct {
	summaryErr error
	summaries  []notify.Summary
	alerts     []string
}

func (f *fakeNotifier) SendSummary(ctx context.Context, summary notify.Summary) error {
	f.summaries = append(f.summaries, summary)
	return f.summaryErr
}

func (f *fakeNotifier) SendAdminAlert(ctx context.Context, runID, stage string, cause error) error {
	f.alerts = append(f.alerts, stage)
	return nil
}

type fakeRecorder struct {
	err     error
	records []history.RunRecord
}

func (f *fakeRecorder) RecordRun(ctx context.Context, record history.RunRecord) error {
	f.records = append(f.records, record)
	return f.err
}

func testFilters(t *testing.T) *scan.PathFilterSet {
	t.Helper()
	filters := scan.NewPathFilterSet()
	filters.Add("/data", ".txt")
	return filters
}

func newTestRunner(t *testing.T, resolver *fakeResolver, executor scan.Executor, publisher *fakePublisher, notifier *fakeNotifier, recorder *fakeRecorder) *Runner {
	t.Helper()
	fanOut, err := scan.NewFanOut(executor, 2, nil)
	require.NoError(t, err)

	var n Notifier
	if notifier != nil {
		n = notifier
	}
	var rec HistoryRecorder
	if recorder != nil {
		rec = recorder
	}

	r, err := NewRunner(resolver, fanOut, testFilters(t), publisher, n, rec, nil)
	require.NoError(t, err)
	return r
}

func TestNewRunner_Validation(t *testing.T) {
	fanOut, err := scan.NewFanOut(&fakeExecutor{}, 1, nil)
	require.NoError(t, err)
	filters := scan.NewPathFilterSet()
	filters.Add("/data", ".txt")

	_, err = NewRunner(nil, fanOut, filters, &fakePublisher{}, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewRunner(&fakeResolver{}, nil, filters, &fakePublisher{}, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewRunner(&fakeResolver{}, fanOut, scan.NewPathFilterSet(), &fakePublisher{}, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewRunner(&fakeResolver{}, fanOut, filters, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestRunner_SuccessfulRun(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1", "PC2", "PC3"}}
	executor := &fakeExecutor{
		files:       map[string]int{"PC1": 2, "PC2": 1},
		unreachable: map[string]bool{"PC3": true},
	}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}

	runner := newTestRunner(t, resolver, executor, publisher, notifier, recorder)

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.NotEmpty(t, outcome.RunID)
	assert.Equal(t, []string{"PC1", "PC2", "PC3"}, outcome.Targets)
	assert.Equal(t, 2, outcome.Report.Counters.TargetsScanned)
	assert.Equal(t, 3, outcome.Report.Counters.MatchingFiles)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "PC3", outcome.Failures[0].Target)
	assert.Equal(t, "/tmp/report.xlsx", outcome.ReportPath)

	// History record matches the outcome.
	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, outcome.RunID, record.ID)
	assert.Equal(t, history.RunStatusCompleted, record.Status)
	assert.Equal(t, 2, record.TargetsScanned)
	assert.Equal(t, 3, record.MatchingFiles)
	assert.Equal(t, 1, record.TransportFailures)

	// Summary went out with the report attached.
	require.Len(t, notifier.summaries, 1)
	summary := notifier.summaries[0]
	assert.Equal(t, outcome.RunID, summary.RunID)
	assert.Equal(t, 3, summary.MatchingFiles)
	assert.Equal(t, 1, summary.TransportFailures)
	assert.Equal(t, 1, summary.FiltersApplied)
	assert.Equal(t, "/tmp/report.xlsx", summary.ReportPath)

	assert.Empty(t, notifier.alerts)
}

func TestRunner_ResolveFailureAlertsAdmins(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("directory unreachable")}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}

	runner := newTestRunner(t, resolver, &fakeExecutor{}, publisher, notifier, recorder)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), StageResolveTargets)
	assert.Contains(t, err.Error(), "directory unreachable")

	assert.Equal(t, []string{StageResolveTargets}, notifier.alerts)
	assert.Empty(t, notifier.summaries)
	assert.Equal(t, 0, publisher.ensureCalls)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, history.RunStatusFailed, recorder.records[0].Status)
	assert.Equal(t, StageResolveTargets, recorder.records[0].FailedStage)
}

func TestRunner_OutputDirFailureAlertsAdmins(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1"}}
	publisher := &fakePublisher{ensureErr: fmt.Errorf("read-only filesystem")}
	notifier := &fakeNotifier{}

	runner := newTestRunner(t, resolver, &fakeExecutor{}, publisher, notifier, nil)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{StagePrepareOutput}, notifier.alerts)
}

func TestRunner_PublishFailureAlertsAdmins(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1"}}
	publisher := &fakePublisher{publishErr: fmt.Errorf("disk full")}
	notifier := &fakeNotifier{}

	runner := newTestRunner(t, resolver, &fakeExecutor{files: map[string]int{"PC1": 1}}, publisher, notifier, nil)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{StagePublishReport}, notifier.alerts)
	assert.Empty(t, notifier.summaries)
}

func TestRunner_NotifyFailureDoesNotFailRun(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1"}}
	notifier := &fakeNotifier{summaryErr: fmt.Errorf("smtp down")}

	runner := newTestRunner(t, resolver, &fakeExecutor{files: map[string]int{"PC1": 1}}, &fakePublisher{}, notifier, nil)

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, outcome)
	require.Len(t, notifier.summaries, 1)
}

func TestRunner_HistoryFailureDoesNotFailRun(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1"}}
	recorder := &fakeRecorder{err: fmt.Errorf("database gone")}

	runner := newTestRunner(t, resolver, &fakeExecutor{}, &fakePublisher{}, nil, recorder)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, recorder.records, 1)
}

func TestRunner_ZeroTargetsIsNotAFailure(t *testing.T) {
	resolver := &fakeResolver{targets: []string{}}
	publisher := &fakePublisher{}
	notifier := &fakeNotifier{}

	runner := newTestRunner(t, resolver, &fakeExecutor{}, publisher, notifier, nil)

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Report.Counters.TargetsScanned)
	assert.Empty(t, notifier.alerts)

	// Empty report still gets published, but nothing is attached to the mail.
	assert.NotNil(t, publisher.published)
	require.Len(t, notifier.summaries, 1)
	assert.Empty(t, notifier.summaries[0].ReportPath)
}

func TestRunner_CancelledContextSkipsAdminAlert(t *testing.T) {
	resolver := &fakeResolver{targets: []string{"PC1", "PC2"}}
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}

	runner := newTestRunner(t, resolver, &fakeExecutor{}, &fakePublisher{}, notifier, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, notifier.alerts)
	assert.Empty(t, recorder.records)
}
