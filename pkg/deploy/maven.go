package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/tools"
)

// Artifact describes one archive upload.
type Artifact struct {
	File          string
	GroupID       string
	ArtifactID    string
	Version       string
	RepositoryURL string
	RepositoryID  string
}

// Client uploads an artifact to a binary repository.
type Client interface {
	Deploy(ctx context.Context, a Artifact) error
}

// MavenClient uploads with `mvn deploy:deploy-file`.
type MavenClient struct {
	Runner tools.Runner
	Tool   string
	Dir    string
	Debug  bool
}

// NewMavenClient creates a client invoking tool (usually "mvn").
func NewMavenClient(runner tools.Runner, tool, dir string, debug bool) *MavenClient {
	if tool == "" {
		tool = api.DefaultDeployTool
	}
	return &MavenClient{Runner: runner, Tool: tool, Dir: dir, Debug: debug}
}

// Args builds the deploy-file argument list for a.
func (c *MavenClient) Args(a Artifact) []string {
	args := []string{"deploy:deploy-file", "-Dpackaging=" + api.Packaging}
	if c.Debug {
		args = append(args, "--debug")
	}
	if a.RepositoryID != "" {
		args = append(args, "-DrepositoryId="+a.RepositoryID)
	}
	return append(args,
		"-Durl="+a.RepositoryURL,
		"-Dfile="+a.File,
		"-DgroupId="+a.GroupID,
		"-DartifactId="+a.ArtifactID,
		"-Dversion="+a.Version,
	)
}

func (c *MavenClient) Deploy(ctx context.Context, a Artifact) error {
	if a.RepositoryURL == "" {
		return fmt.Errorf("repository url is required")
	}

	slog.Info("deploying artifact", "file", a.File, "url", a.RepositoryURL, "version", a.Version)

	if _, err := c.Runner.Run(ctx, tools.Command{Name: c.Tool, Args: c.Args(a), Dir: c.Dir}); err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}
	return nil
}
