package vcs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// GoGit commits and tags in-process with go-git. Author and tagger identities
// come from the repository and user git configuration.
type GoGit struct {
	repo *git.Repository
	root string
}

// OpenGoGit opens the git repository containing dir.
func OpenGoGit(dir string) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}

	return &GoGit{repo: repo, root: wt.Filesystem.Root()}, nil
}

func (g *GoGit) Commit(_ context.Context, message string, files ...string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	for _, f := range files {
		rel, err := g.relative(f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{All: len(files) == 0})
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}

	slog.Info("committed", "vcs", "go-git", "commit", hash.String(), "message", message)
	return nil
}

func (g *GoGit) Tag(_ context.Context, name, message string) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("resolving HEAD: %w", err)
	}

	if _, err := g.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{Message: message}); err != nil {
		return fmt.Errorf("git tag %s: %w", name, err)
	}

	slog.Info("tagged", "vcs", "go-git", "tag", name, "commit", head.Hash().String())
	return nil
}

func (g *GoGit) relative(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", file, err)
	}
	root, err := filepath.EvalSymlinks(g.root)
	if err != nil {
		root = g.root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is outside the repository: %w", file, err)
	}
	return filepath.ToSlash(rel), nil
}
