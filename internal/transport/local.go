package transport

import (
	"context"

	"github.com/spf13/afero"

	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/scan"
)

// LocalExecutor runs the scan task in-process against the given filesystem.
// Used for scanning the local host and as a transport in tests.
type LocalExecutor struct {
	fs     afero.Fs
	logger *logger.Logger
}

// NewLocalExecutor creates a LocalExecutor over fsys.
func NewLocalExecutor(fsys afero.Fs, log *logger.Logger) *LocalExecutor {
	if log == nil {
		log = logger.NewDefault()
	}
	return &LocalExecutor{fs: fsys, logger: log}
}

// Execute runs the task synchronously. The target name is stamped on the
// result so aggregation behaves identically to the remote path. It never
// fails at the transport level.
func (e *LocalExecutor) Execute(ctx context.Context, target string, filters *scan.PathFilterSet) (*scan.Result, error) {
	task := scan.NewTask(e.fs, target, e.logger)
	return task.Run(ctx, filters), nil
}
