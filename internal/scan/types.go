package scan

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// FileRecord describes one file matched by a scan task.
type FileRecord struct {
	ComputerName  string
	Path          string // absolute, normalized
	CreationTime  time.Time
	LastWriteTime time.Time
	SizeBytes     int64
}

// PathError records a non-fatal enumeration failure for one root path.
type PathError struct {
	Path    string
	Message string
}

// Result holds the outcome of one scan task on one target. PathExistence
// always carries one entry per filter-set root, in filter-set order, even
// when enumeration under a root failed.
type Result struct {
	Target        string
	PathExistence *orderedmap.OrderedMap[string, bool]
	MatchedFiles  []FileRecord
	Errors        []PathError
}

// NewResult creates an empty Result for the given target.
func NewResult(target string) *Result {
	return &Result{
		Target:        target,
		PathExistence: orderedmap.NewOrderedMap[string, bool](),
	}
}

// Failure records a target that could not be scanned at the transport level.
// Distinct from a PathError: the target produced no Result at all.
type Failure struct {
	Target string
	Err    error
}
