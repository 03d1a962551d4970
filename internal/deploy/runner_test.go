package deploy

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// writeScript writes an executable stand-in for the automation tool.
func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-playbook-runner")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRunner(t *testing.T, script string) *Runner {
	t.Helper()
	return NewRunner(Config{
		ProjectDir: filepath.Dir(script),
		Playbook:   "controller_playbook.yaml",
		Inventory:  "inventories/control.yaml",
		RemoteUser: "deploy",
		Command:    script,
	}, testLogger())
}

func TestRunSuccess(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "PLAY RECAP: ok"
echo "some warning" >&2
exit 0
`)
	r := newTestRunner(t, script)

	out := r.Run(context.Background(), "app_tag")

	if out.Status != StatusSuccess {
		t.Fatalf("Status = %v, want %v (stderr %s)", out.Status, StatusSuccess, out.Stderr)
	}
	if out.Target != "app_tag" {
		t.Errorf("Target = %q", out.Target)
	}
	if !strings.Contains(string(out.Stdout), "PLAY RECAP: ok") {
		t.Errorf("Stdout = %q, want captured output", out.Stdout)
	}
	if !strings.Contains(string(out.Stderr), "some warning") {
		t.Errorf("Stderr = %q, want captured output", out.Stderr)
	}
}

func TestRunFailure(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "task failed" >&2
exit 2
`)
	r := newTestRunner(t, script)

	out := r.Run(context.Background(), "app_tag")

	if out.Status != StatusFailure {
		t.Fatalf("Status = %v, want %v", out.Status, StatusFailure)
	}
	if out.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", out.ExitCode)
	}
	if !strings.Contains(string(out.Stderr), "task failed") {
		t.Errorf("Stderr = %q, want captured output", out.Stderr)
	}
}

func TestRunSpawnError(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(Config{
		ProjectDir: dir,
		Playbook:   "controller_playbook.yaml",
		Inventory:  "inventories/control.yaml",
		Command:    filepath.Join(dir, "does-not-exist"),
	}, testLogger())

	out := r.Run(context.Background(), "app_tag")

	if out.Status != StatusError {
		t.Fatalf("Status = %v, want %v", out.Status, StatusError)
	}
	if out.Detail == "" {
		t.Error("Detail should describe the spawn failure")
	}
}

func TestRunArguments(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "$@"
exit 0
`)
	r := newTestRunner(t, script)

	out := r.Run(context.Background(), "crash")

	got := strings.TrimSpace(string(out.Stdout))
	want := "controller_playbook.yaml -i inventories/control.yaml -u deploy --tags crash"
	if got != want {
		t.Errorf("arguments = %q, want %q", got, want)
	}
}

func TestRunArgumentsNoRemoteUser(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "$@"
exit 0
`)
	r := newTestRunner(t, script)
	r.cfg.RemoteUser = ""

	out := r.Run(context.Background(), "crash")

	got := strings.TrimSpace(string(out.Stdout))
	want := "controller_playbook.yaml -i inventories/control.yaml --tags crash"
	if got != want {
		t.Errorf("arguments = %q, want %q", got, want)
	}
}

func TestTruncateOutput(t *testing.T) {
	big := make([]byte, maxOutputBytes+100)
	if got := truncateOutput(big); len(got) != maxOutputBytes {
		t.Errorf("len = %d, want %d", len(got), maxOutputBytes)
	}
	small := []byte("hello")
	if got := truncateOutput(small); string(got) != "hello" {
		t.Errorf("small output should be untouched, got %q", got)
	}
}
