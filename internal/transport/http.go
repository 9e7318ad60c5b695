package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/scan"
)

// ScanPath is the agent endpoint that executes a scan task.
const ScanPath = "/v1/scan"

// HealthPath is the agent liveness endpoint.
const HealthPath = "/healthz"

// HTTPExecutor dispatches scan tasks to remote gosweep agents over HTTP.
// One POST per target, no retries: a failed request is a transport failure
// and the target is dropped from the run's results.
type HTTPExecutor struct {
	port    int
	timeout time.Duration
	logger  *logger.Logger
}

// NewHTTPExecutor creates an HTTPExecutor talking to agents on the given
// port. A zero timeout disables the per-request deadline.
func NewHTTPExecutor(port int, timeout time.Duration, log *logger.Logger) (*HTTPExecutor, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid agent port %d", port)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &HTTPExecutor{port: port, timeout: timeout, logger: log}, nil
}

// Execute posts the filter set to the target's agent and decodes the result.
// The returned result is stamped with the dispatch target identity; the
// ComputerName on individual file records stays as reported by the agent.
func (e *HTTPExecutor) Execute(ctx context.Context, target string, filters *scan.PathFilterSet) (*scan.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("http://%s:%d%s", target, e.port, ScanPath)
	agent := fiber.Post(url)
	if e.timeout > 0 {
		agent.Timeout(e.timeout)
	}
	agent.JSON(EncodeFilters(filters))

	var payload ResultPayload
	code, _, errs := agent.Struct(&payload)
	if len(errs) > 0 {
		return nil, fmt.Errorf("scan request to %s failed: %w", target, errs[0])
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("scan request to %s returned status %d", target, code)
	}

	result := DecodeResult(payload)
	result.Target = target

	e.logger.Debugw("Remote scan complete",
		"target", target,
		"matched_files", len(result.MatchedFiles),
		"errors", len(result.Errors),
	)

	return result, nil
}

// Probe checks the target's agent liveness endpoint.
func (e *HTTPExecutor) Probe(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s:%d%s", target, e.port, HealthPath)
	agent := fiber.Get(url)
	agent.Timeout(5 * time.Second)

	code, _, errs := agent.String()
	if len(errs) > 0 {
		return fmt.Errorf("health probe of %s failed: %w", target, errs[0])
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("health probe of %s returned status %d", target, code)
	}
	return nil
}
