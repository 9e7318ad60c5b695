package scan

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/dbsmedya/gosweep/internal/logger"
)

// Task executes the file search on a single machine. It never reports a hard
// failure to its caller: enumeration problems are recorded in the Result's
// Errors list and processing moves on to the next extension or root.
type Task struct {
	fs           afero.Fs
	computerName string
	logger       *logger.Logger
}

// NewTask creates a Task that searches the given filesystem. computerName is
// stamped on every matched file record.
func NewTask(fsys afero.Fs, computerName string, log *logger.Logger) *Task {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Task{
		fs:           fsys,
		computerName: computerName,
		logger:       log.WithTarget(computerName),
	}
}

// Run scans every root in filter-set order. For each root it first records
// whether the root exists as a directory; a missing root is an expected
// outcome, not an error. For roots that exist, each extension is enumerated
// independently, so duplicate extensions produce duplicate matches.
func (t *Task) Run(ctx context.Context, filters *PathFilterSet) *Result {
	result := NewResult(t.computerName)

	for _, root := range filters.Roots() {
		exists := t.checkRoot(root, result)
		result.PathExistence.Set(root, exists)
		if !exists {
			continue
		}

		extensions, _ := filters.Extensions(root)
		for _, ext := range extensions {
			if err := t.enumerate(ctx, root, ext, result); err != nil {
				result.Errors = append(result.Errors, PathError{
					Path:    root,
					Message: err.Error(),
				})
				t.logger.Warnw("Enumeration failed",
					"root", root,
					"extension", ext,
					"error", err,
				)
			}
		}
	}

	t.logger.Debugw("Scan task complete",
		"roots", filters.Len(),
		"matched_files", len(result.MatchedFiles),
		"errors", len(result.Errors),
	)

	return result
}

// checkRoot reports whether root exists and is a directory. A stat failure
// other than not-exist is recorded as a path error and treated as absent.
func (t *Task) checkRoot(root string, result *Result) bool {
	info, err := t.fs.Stat(root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, PathError{
				Path:    root,
				Message: err.Error(),
			})
		}
		return false
	}
	return info.IsDir()
}

// enumerate walks the tree under root appending files whose name ends with
// extension. The walk aborts on the first filesystem error, which the caller
// records against the root before moving to the next extension.
func (t *Task) enumerate(ctx context.Context, root, extension string, result *Result) error {
	return afero.Walk(t.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !MatchesExtension(info.Name(), extension) {
			return nil
		}

		created, modified := fileTimes(info)
		result.MatchedFiles = append(result.MatchedFiles, FileRecord{
			ComputerName:  t.computerName,
			Path:          NormalizePath(path),
			CreationTime:  created,
			LastWriteTime: modified,
			SizeBytes:     info.Size(),
		})
		return nil
	})
}

// fileTimes returns the creation and last-write times for a file. Birth time
// is not exposed portably, so creation falls back to the modification time.
func fileTimes(info os.FileInfo) (created, modified time.Time) {
	return info.ModTime(), info.ModTime()
}

// NormalizePath strips Windows long-path prefixes that remote agents may
// report, leaving a plain absolute path.
func NormalizePath(p string) string {
	if strings.HasPrefix(p, `\\?\UNC\`) {
		return `\\` + p[len(`\\?\UNC\`):]
	}
	if strings.HasPrefix(p, `\\?\`) {
		return p[len(`\\?\`):]
	}
	return p
}
