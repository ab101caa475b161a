package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/deploy"
	"github.com/systemstart/maven-release/pkg/manifest"
	"github.com/systemstart/maven-release/pkg/prompt"
	"github.com/systemstart/maven-release/pkg/sources"
	"github.com/systemstart/maven-release/pkg/tools"
	"github.com/systemstart/maven-release/pkg/vcs"
)

// VersionListener is notified after preprocessing settled the artifact
// version and before anything is packaged. An error aborts the pipeline.
type VersionListener interface {
	VersionResolved(ctx context.Context, v api.ResolvedVersion) error
}

// Runner owns the collaborators of the release stages.
type Runner struct {
	Config    *api.Config
	Prompter  prompt.Prompter
	Versions  manifest.VersionSetter
	VCS       vcs.VCS
	Deployer  deploy.Client
	Listeners []VersionListener

	// TagName overrides the default {name}-{version} release tag.
	TagName string
}

// NewRunner wires the collaborators selected by cfg.
func NewRunner(cfg *api.Config, exec tools.Runner, p prompt.Prompter, opts Options) (*Runner, error) {
	r := &Runner{
		Config:   cfg,
		Prompter: p,
		Deployer: deploy.NewMavenClient(exec, cfg.DeployTool, cfg.Dir, cfg.Debug || opts.Debug),
		TagName:  opts.Tag,
	}

	switch cfg.VersionTool {
	case api.VersionToolNative:
		r.Versions = manifest.NewNativeSetter(r.path(cfg.Manifest))
	default:
		r.Versions = manifest.NewNpmSetter(exec, filepath.Dir(r.path(cfg.Manifest)))
	}

	v, err := vcs.New(cfg.VCS, exec, cfg.Dir)
	if err != nil {
		return nil, err
	}
	r.VCS = v

	if len(cfg.Generate) > 0 {
		r.Listeners = append(r.Listeners, sources.NewGenerator(cfg.Dir, cfg.Generate))
	}

	return r, nil
}

// path resolves p against the configuration directory.
func (r *Runner) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Config.Dir, p)
}

func (r *Runner) manifestPath() string {
	return r.path(r.Config.Manifest)
}

func (r *Runner) loadManifest() (*manifest.Manifest, error) {
	return manifest.Load(r.manifestPath())
}

type messageData struct {
	Name    string
	Version string
	Tag     string
}

func (r *Runner) message(name, text string, data messageData) (string, error) {
	msg, err := sources.Render(name, text, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s message: %w", name, err)
	}
	return strings.TrimSpace(msg), nil
}

// failed logs a failed external operation with its exit code and returns
// the wrapped error.
func failed(what string, err error) error {
	if code, ok := tools.ExitCode(err); ok {
		slog.Error(what+" failed", "exitCode", code, "error", err)
	} else {
		slog.Error(what+" failed", "error", err)
	}
	return fmt.Errorf("%s failed: %w", strings.ToLower(what), err)
}
