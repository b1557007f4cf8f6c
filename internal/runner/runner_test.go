package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// mockCommandRunner records calls and returns a canned response.
type mockCommandRunner struct {
	calls    []mockCall
	stdout   string
	exitCode int
	err      error
}

type mockCall struct {
	dir  string
	name string
	args []string
}

func (m *mockCommandRunner) Run(_ context.Context, dir, name string, args ...string) (string, string, int, error) {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	return m.stdout, "", m.exitCode, m.err
}

func TestRunner_Run(t *testing.T) {
	mock := &mockCommandRunner{stdout: "ok\n"}
	r := newWithRunner("/work/circuit", mock, nil)

	res, err := r.Run(context.Background(), "( set -ex; true ) >{log} 2>&1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stdout != "ok\n" || res.ExitCode != 0 {
		t.Errorf("Run() = %+v", res)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(mock.calls))
	}
	call := mock.calls[0]
	if call.dir != "/work/circuit" || call.name != "bash" {
		t.Errorf("call = %+v", call)
	}
	if len(call.args) != 2 || call.args[0] != "-c" || call.args[1] != "( set -ex; true ) >{log} 2>&1" {
		t.Errorf("args = %q", call.args)
	}
}

func TestRunner_ExitCode(t *testing.T) {
	r := newWithRunner("", &mockCommandRunner{exitCode: 3}, nil)
	res, err := r.Run(context.Background(), "false")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("error = %v, want *ExitError with code 3", err)
	}
	if !errors.Is(err, ErrStepFailed) {
		t.Error("error does not wrap ErrStepFailed")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
}

func TestRunner_StartFailure(t *testing.T) {
	r := newWithRunner("", &mockCommandRunner{exitCode: -1, err: errors.New("exec: not found")}, nil)
	_, err := r.Run(context.Background(), "true")
	if err == nil || errors.Is(err, ErrStepFailed) {
		t.Fatalf("error = %v, want start failure", err)
	}
}

func TestRunner_EmptyCommand(t *testing.T) {
	if _, err := New("", nil).Run(context.Background(), ""); err == nil {
		t.Fatal("Run(\"\") error = nil")
	}
}

func TestRunner_Bash(t *testing.T) {
	if _, err := exec.LookPath(Shell); err != nil {
		t.Skip("bash not available")
	}
	dir := t.TempDir()
	r := New(dir, nil)

	res, err := r.Run(context.Background(), "( set -ex; echo hello ) >step.log 2>&1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stdout != "" {
		t.Errorf("Stdout = %q, want output redirected", res.Stdout)
	}
	data, err := os.ReadFile(filepath.Join(dir, "step.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "+ echo hello") || !strings.Contains(string(data), "hello\n") {
		t.Errorf("log = %q", data)
	}

	_, err = r.Run(context.Background(), "( set -ex; exit 4 ) >step.log 2>&1")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 4 {
		t.Errorf("error = %v, want exit status 4", err)
	}
}
