package release

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/manifest"
	"github.com/systemstart/maven-release/pkg/prompt"
)

// Negotiate resolves the release and next development versions. Values
// supplied on the command line are kept; each missing one is asked for.
func (r *Runner) Negotiate(ctx context.Context, st *State) error {
	if st.RequestedReleaseVersion != "" && st.RequestedNextVersion != "" {
		slog.Info("using supplied versions", "release", st.RequestedReleaseVersion, "next", st.RequestedNextVersion)
		return nil
	}

	m, err := r.loadManifest()
	if err != nil {
		return err
	}

	if st.RequestedReleaseVersion == "" {
		v, err := r.Prompter.Ask(ctx, prompt.Question{
			Message: fmt.Sprintf("Release version for %s:", m.Name),
			Default: m.Version,
		})
		if err != nil {
			return err
		}
		st.RequestedReleaseVersion = v
	}

	if st.RequestedNextVersion == "" {
		v, err := r.Prompter.Ask(ctx, prompt.Question{
			Message: fmt.Sprintf("Next version for %s:", m.Name),
			Default: api.DefaultNextVersion,
		})
		if err != nil {
			return err
		}
		st.RequestedNextVersion = v
	}

	if !manifest.IsSemver(st.RequestedReleaseVersion) {
		slog.Warn("release version is not a semantic version", "version", st.RequestedReleaseVersion)
	}

	slog.Info("negotiated versions", "release", st.RequestedReleaseVersion, "next", st.RequestedNextVersion)
	return nil
}
