package mlworker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"monitor/internal/domain/entity"
)

type Config struct {
	Bin            string
	Args           []string
	Timeout        time.Duration
	MaxConcurrency int
}

// WorkerError carries the diagnostics of a failed worker invocation. The
// prediction invoker never surfaces it to its own callers; it only decides
// the fallback path.
type WorkerError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("ml worker failed (exit %d): %v; stderr: %s", e.ExitCode, e.Err, e.Stderr)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// ProcessWorker spawns a fresh worker process per request and speaks the
// stdin/stdout JSON protocol: one request document in, stdin closed, one
// result document out, stderr captured for diagnostics only. Invocations
// are bounded by a timeout and a concurrency cap.
type ProcessWorker struct {
	bin     string
	args    []string
	timeout time.Duration
	sem     chan struct{}
}

func NewProcessWorker(cfg Config) *ProcessWorker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	return &ProcessWorker{
		bin:     cfg.Bin,
		args:    cfg.Args,
		timeout: cfg.Timeout,
		sem:     make(chan struct{}, cfg.MaxConcurrency),
	}
}

func (w *ProcessWorker) Invoke(ctx context.Context, req entity.WorkerRequest) (*entity.WorkerResponse, error) {
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &WorkerError{ExitCode: -1, Err: ctx.Err()}
	}
	defer func() { <-w.sem }()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &WorkerError{ExitCode: -1, Err: fmt.Errorf("marshal worker request: %w", err)}
	}

	cmd := exec.CommandContext(ctx, w.bin, w.args...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &WorkerError{
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}

	resp := &entity.WorkerResponse{}
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), resp); err != nil {
		return nil, &WorkerError{
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    fmt.Errorf("parse worker output: %w", err),
		}
	}

	if err := validate(resp); err != nil {
		return nil, &WorkerError{
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return resp, nil
}

func validate(resp *entity.WorkerResponse) error {
	if resp.AnomalyProbability < 0 || resp.AnomalyProbability > 1 {
		return fmt.Errorf("anomaly probability %f out of [0,1]", resp.AnomalyProbability)
	}
	if c := resp.PredictionDetails.Confidence; c < 0 || c > 1 {
		return fmt.Errorf("confidence %f out of [0,1]", c)
	}
	return nil
}
