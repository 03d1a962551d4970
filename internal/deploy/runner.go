package deploy

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"
)

const (
	// defaultCommand is the automation tool invoked per target.
	defaultCommand = "ansible-playbook"

	// maxOutputBytes caps captured stdout/stderr per stream.
	maxOutputBytes = 64 * 1024
)

// Status classifies a finished deployment attempt.
type Status string

const (
	// StatusSuccess means the playbook exited zero.
	StatusSuccess Status = "success"

	// StatusFailure means the playbook ran but exited non-zero.
	StatusFailure Status = "failure"

	// StatusError means the playbook process could not be spawned.
	StatusError Status = "error"
)

// Outcome captures one deployment attempt. Stdout and Stderr are
// truncated; Detail is set only for StatusError.
type Outcome struct {
	Target   string
	Status   Status
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Detail   string
	Duration time.Duration
}

// Config defines how the playbook is invoked.
type Config struct {
	ProjectDir string
	Playbook   string
	Inventory  string
	RemoteUser string

	// Command overrides the automation tool binary. Empty means
	// ansible-playbook.
	Command string
}

// Runner invokes the automation tool for one target at a time. No
// timeout is imposed: a playbook runs to completion or indefinitely, and
// no per-target exclusion exists, so overlapping runs against the same
// target are possible.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// NewRunner creates a Runner for the configured automation project.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	if cfg.Command == "" {
		cfg.Command = defaultCommand
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
	}
}

// Run invokes the playbook scoped to the given target and classifies the
// result. It blocks until the process exits.
func (r *Runner) Run(ctx context.Context, target string) Outcome {
	args := []string{r.cfg.Playbook, "-i", r.cfg.Inventory}
	if r.cfg.RemoteUser != "" {
		args = append(args, "-u", r.cfg.RemoteUser)
	}
	args = append(args, "--tags", target)

	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)
	cmd.Dir = r.cfg.ProjectDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Info("running playbook",
		"target", target,
		"playbook", r.cfg.Playbook,
		"inventory", r.cfg.Inventory,
		"dir", r.cfg.ProjectDir,
	)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	out := Outcome{
		Target:   target,
		Stdout:   truncateOutput(stdout.Bytes()),
		Stderr:   truncateOutput(stderr.Bytes()),
		Duration: elapsed,
	}

	switch {
	case err == nil:
		out.Status = StatusSuccess
		r.logger.Info("playbook succeeded", "target", target, "duration", elapsed)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Status = StatusFailure
			out.ExitCode = exitErr.ExitCode()
			r.logger.Warn("playbook exited with non-zero status",
				"target", target,
				"exit_code", out.ExitCode,
				"duration", elapsed,
			)
		} else {
			out.Status = StatusError
			out.Detail = err.Error()
			r.logger.Error("failed to run playbook", "target", target, "error", err)
		}
	}

	return out
}

// truncateOutput caps a captured stream at maxOutputBytes.
func truncateOutput(b []byte) []byte {
	if len(b) > maxOutputBytes {
		return b[:maxOutputBytes]
	}
	return b
}
