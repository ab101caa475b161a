package vcs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/tools"
)

// VCS records release changes in version control.
type VCS interface {
	// Commit creates a commit. With no files every pending change is committed.
	Commit(ctx context.Context, message string, files ...string) error
	// Tag tags the current revision.
	Tag(ctx context.Context, name, message string) error
}

// New returns the backend named by kind, operating in dir.
func New(kind string, runner tools.Runner, dir string) (VCS, error) {
	switch kind {
	case api.VCSMercurial:
		return &Mercurial{Runner: runner, Dir: dir}, nil
	case api.VCSGit:
		return &GitCLI{Runner: runner, Dir: dir}, nil
	case api.VCSGoGit:
		return OpenGoGit(dir)
	default:
		return nil, fmt.Errorf("unknown vcs: %s", kind)
	}
}

// Mercurial drives the hg command line.
type Mercurial struct {
	Runner tools.Runner
	Dir    string
}

func (m *Mercurial) Commit(ctx context.Context, message string, files ...string) error {
	args := append([]string{"commit", "-m", message}, files...)
	slog.Info("committing", "vcs", "hg", "message", message, "files", files)
	return run(ctx, m.Runner, tools.Command{Name: "hg", Args: args, Dir: m.Dir})
}

func (m *Mercurial) Tag(ctx context.Context, name, message string) error {
	slog.Info("tagging", "vcs", "hg", "tag", name)
	return run(ctx, m.Runner, tools.Command{Name: "hg", Args: []string{"tag", name, "-m", message}, Dir: m.Dir})
}

// GitCLI drives the git command line.
type GitCLI struct {
	Runner tools.Runner
	Dir    string
}

func (g *GitCLI) Commit(ctx context.Context, message string, files ...string) error {
	args := []string{"commit", "-m", message}
	if len(files) == 0 {
		args = []string{"commit", "-a", "-m", message}
	} else {
		args = append(append(args, "--"), files...)
	}
	slog.Info("committing", "vcs", "git", "message", message, "files", files)
	return run(ctx, g.Runner, tools.Command{Name: "git", Args: args, Dir: g.Dir})
}

func (g *GitCLI) Tag(ctx context.Context, name, message string) error {
	slog.Info("tagging", "vcs", "git", "tag", name)
	return run(ctx, g.Runner, tools.Command{Name: "git", Args: []string{"tag", "-a", name, "-m", message}, Dir: g.Dir})
}

func run(ctx context.Context, runner tools.Runner, cmd tools.Command) error {
	if _, err := runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%s %s: %w", cmd.Name, cmd.Args[0], err)
	}
	return nil
}
