package scan

import "time"

// FileRow is one matched file annotated with its owning target.
type FileRow struct {
	Target        string
	Path          string
	CreationTime  time.Time
	LastWriteTime time.Time
	SizeBytes     int64
}

// ExistenceRow records whether one root existed on one target.
type ExistenceRow struct {
	Target string
	Root   string
	Exists bool
}

// ErrorRow is one per-path enumeration error on one target.
type ErrorRow struct {
	Target  string
	Path    string
	Message string
}

// Counters summarizes a run for notification subjects and history records.
type Counters struct {
	TargetsScanned int
	MatchingFiles  int
	SearchErrors   int
}

// Report is the merged, run-wide outcome of all targets' scans.
type Report struct {
	FileRows      []FileRow
	ExistenceRows []ExistenceRow
	ErrorRows     []ErrorRow
	Counters      Counters
}

// Aggregate merges per-target results into one Report. It is a pure function:
// row order follows the order of results, then per-target discovery order,
// with no global sort and no dedup across targets.
func Aggregate(results []*Result) *Report {
	report := &Report{
		FileRows:      make([]FileRow, 0),
		ExistenceRows: make([]ExistenceRow, 0),
		ErrorRows:     make([]ErrorRow, 0),
	}

	for _, result := range results {
		for _, file := range result.MatchedFiles {
			report.FileRows = append(report.FileRows, FileRow{
				Target:        result.Target,
				Path:          file.Path,
				CreationTime:  file.CreationTime,
				LastWriteTime: file.LastWriteTime,
				SizeBytes:     file.SizeBytes,
			})
		}

		for el := result.PathExistence.Front(); el != nil; el = el.Next() {
			report.ExistenceRows = append(report.ExistenceRows, ExistenceRow{
				Target: result.Target,
				Root:   el.Key,
				Exists: el.Value,
			})
		}

		for _, pathErr := range result.Errors {
			report.ErrorRows = append(report.ErrorRows, ErrorRow{
				Target:  result.Target,
				Path:    pathErr.Path,
				Message: pathErr.Message,
			})
		}
	}

	report.Counters = Counters{
		TargetsScanned: len(results),
		MatchingFiles:  len(report.FileRows),
		SearchErrors:   len(report.ErrorRows),
	}

	return report
}
