package release

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/systemstart/maven-release/pkg/tools"
)

func TestFinalize_Success(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	st := NewState(env.cfg, Options{DevelopmentVersion: "1.3.0-dev"})

	if err := env.runner.Finalize(context.Background(), st, StateTag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"tag lib-1.2.0 [release] Release of lib-1.2.0",
		"set-version 1.3.0-dev",
		"commit [release] prepare for next development iteration",
	}
	if !reflect.DeepEqual(env.log.calls, want) {
		t.Errorf("calls = %v, want %v", env.log.calls, want)
	}

	wantFiles := []string{filepath.Join(env.dir, "package.json")}
	if len(env.vcs.files) != 1 || !reflect.DeepEqual(env.vcs.files[0], wantFiles) {
		t.Errorf("bump commit files = %v, want %v", env.vcs.files, wantFiles)
	}
}

func TestFinalize_DefaultsToPatch(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)

	if err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateBump); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.log.calls[0] != "set-version patch" {
		t.Errorf("calls = %v", env.log.calls)
	}
}

func TestFinalize_CustomTagName(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	env.runner.TagName = "v1.2.0"

	if err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateTag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.log.calls[0] != "tag v1.2.0 [release] Release of v1.2.0" {
		t.Errorf("unexpected tag call %q", env.log.calls[0])
	}
}

func TestFinalize_TagUsesArtifactID(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	env.cfg.ArtifactID = "lib-web"
	st := NewState(env.cfg, Options{ReleaseVersion: "1.2.0", DevelopmentVersion: "patch"})

	tasks, err := ParseTasks([]string{TaskRelease})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.runner.Run(context.Background(), st, tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.log.calls[0] != "deploy lib-web-1.2.0.zip 1.2.0" {
		t.Errorf("unexpected upload %q", env.log.calls[0])
	}
	if env.log.calls[1] != "tag lib-web-1.2.0 [release] Release of lib-web-1.2.0" {
		t.Errorf("tag should match the uploaded artifact, got %q", env.log.calls[1])
	}
}

func TestFinalize_TagWithoutPreprocessUsesConfiguredArtifactID(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	env.cfg.ArtifactID = "lib-web"

	if err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateTag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.log.calls[0] != "tag lib-web-1.2.0 [release] Release of lib-web-1.2.0" {
		t.Errorf("unexpected tag call %q", env.log.calls[0])
	}
}

func TestFinalize_TagFailureHalts(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	env.vcs.tagErr = &tools.ExitError{Tool: "hg", ExitCode: 1}

	err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateTag)
	if err == nil {
		t.Fatal("expected error")
	}

	if len(env.log.calls) != 1 {
		t.Errorf("no version-set or commit may follow a failed tag, calls = %v", env.log.calls)
	}
	if code, ok := tools.ExitCode(err); !ok || code != 1 {
		t.Errorf("ExitCode() = %d, %v; want 1, true", code, ok)
	}
}

func TestFinalize_BumpFailureHalts(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	bumpErr := &tools.ExitError{Tool: "npm", ExitCode: 2}
	env.versions.err = bumpErr

	err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateTag)

	var exitErr *tools.ExitError
	if !errors.As(err, &exitErr) || exitErr != bumpErr {
		t.Fatalf("expected bump error, got %v", err)
	}
	want := []string{"tag lib-1.2.0 [release] Release of lib-1.2.0", "set-version patch"}
	if !reflect.DeepEqual(env.log.calls, want) {
		t.Errorf("calls = %v, want %v", env.log.calls, want)
	}
}

func TestFinalize_CommitFailure(t *testing.T) {
	env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)
	env.vcs.commitErr = errors.New("nothing changed")

	err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), StateTag)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := tools.ExitCode(err); ok {
		t.Error("a plain error carries no exit code")
	}
	if len(env.log.calls) != 3 {
		t.Errorf("calls = %v", env.log.calls)
	}
}

func TestFinalize_FromState(t *testing.T) {
	tests := []struct {
		from FinalizeState
		want []string
	}{
		{
			from: StateBump,
			want: []string{"set-version patch", "commit [release] prepare for next development iteration"},
		},
		{
			from: StateCommitBump,
			want: []string{"commit [release] prepare for next development iteration"},
		},
		{
			from: StateDone,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			env := newTestEnv(t, `{"name":"lib","version":"1.2.0"}`)

			if err := env.runner.Finalize(context.Background(), NewState(env.cfg, Options{}), tt.from); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(env.log.calls, tt.want) {
				t.Errorf("calls = %v, want %v", env.log.calls, tt.want)
			}
		})
	}
}

func TestFinalizeState_String(t *testing.T) {
	names := map[FinalizeState]string{
		StateTag:          "tag",
		StateBump:         "bump",
		StateCommitBump:   "commit-bump",
		StateDone:         "done",
		FinalizeState(42): "FinalizeState(42)",
	}
	for s, want := range names {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
