package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/systemstart/maven-release/pkg/tools"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"tool exit code", fmt.Errorf("step %q failed: %w", "upload", &tools.ExitError{Tool: "mvn", ExitCode: 4}), 4},
		{"tool not found", &tools.ExitError{Tool: "hg", ExitCode: -1}, exitToolErrors},
		{"plain error", errors.New("archive name not resolved"), exitToolErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
