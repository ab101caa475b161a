package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
}

func TestExecRunner_Success(t *testing.T) {
	skipWithoutShell(t)

	result, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello; echo warn >&2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("expected stdout 'hello', got %q", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "warn" {
		t.Errorf("expected stderr 'warn', got %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	skipWithoutShell(t)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	result, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "pwd"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != dir {
		t.Errorf("expected to run in %s, got %q", dir, result.Stdout)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	result, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result == nil || result.ExitCode != 3 {
		t.Fatalf("expected result with exit code 3, got %+v", result)
	}

	code, ok := ExitCode(err)
	if !ok || code != 3 {
		t.Errorf("ExitCode() = %d, %v; want 3, true", code, ok)
	}
	if !strings.Contains(err.Error(), "sh failed, exit code 3") {
		t.Errorf("unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should carry stderr, got: %v", err)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{Name: "definitely-not-a-real-tool-xyz"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	code, ok := ExitCode(err)
	if !ok || code != -1 {
		t.Errorf("ExitCode() = %d, %v; want -1, true", code, ok)
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExitCode_Wrapped(t *testing.T) {
	inner := &ExitError{Tool: "hg", ExitCode: 255}
	err := fmt.Errorf("tagging release: %w", inner)

	code, ok := ExitCode(err)
	if !ok || code != 255 {
		t.Errorf("ExitCode() = %d, %v; want 255, true", code, ok)
	}

	if _, ok := ExitCode(errors.New("plain")); ok {
		t.Error("plain error should not carry an exit code")
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Name: "hg", Args: []string{"tag", "lib-1.0.0", "-m", "msg"}}
	if got := c.String(); got != "hg tag lib-1.0.0 -m msg" {
		t.Errorf("String() = %q", got)
	}
}
