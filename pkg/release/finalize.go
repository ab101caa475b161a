package release

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/manifest"
)

// FinalizeState is a state of the release finalizer. The machine only ever
// moves forward: Tag, Bump, CommitBump, Done.
type FinalizeState int

const (
	StateTag FinalizeState = iota
	StateBump
	StateCommitBump
	StateDone
)

func (s FinalizeState) String() string {
	switch s {
	case StateTag:
		return "tag"
	case StateBump:
		return "bump"
	case StateCommitBump:
		return "commit-bump"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("FinalizeState(%d)", int(s))
	}
}

// Finalize runs the finalizer from the given state until Done. Each state
// runs once; the first failure halts the machine and nothing already done
// is undone.
func (r *Runner) Finalize(ctx context.Context, st *State, from FinalizeState) error {
	for state := from; state != StateDone; {
		slog.Debug("finalize", "state", state)

		next, err := r.finalizeStep(ctx, st, state)
		if err != nil {
			return err
		}
		state = next
	}
	return nil
}

func (r *Runner) finalizeStep(ctx context.Context, st *State, s FinalizeState) (FinalizeState, error) {
	switch s {
	case StateTag:
		return StateBump, r.tagRelease(ctx, st)
	case StateBump:
		return StateCommitBump, r.bumpVersion(ctx, st)
	case StateCommitBump:
		return StateDone, r.commitBump(ctx)
	default:
		return StateDone, fmt.Errorf("invalid finalize state %s", s)
	}
}

func (r *Runner) tagRelease(ctx context.Context, st *State) error {
	m, err := r.loadManifest()
	if err != nil {
		return err
	}

	name := r.TagName
	if name == "" {
		name = r.artifactID(st, m) + "-" + m.Version
	}

	msg, err := r.message("tag", r.Config.Messages.Tag, messageData{Name: m.Name, Version: m.Version, Tag: name})
	if err != nil {
		return err
	}

	if err := r.VCS.Tag(ctx, name, msg); err != nil {
		return failed("Release tagging", err)
	}

	slog.Info("tagged release", "tag", name)
	return nil
}

// artifactID is the artifact id settled by preprocessing, else the configured
// one, else the manifest name.
func (r *Runner) artifactID(st *State, m *manifest.Manifest) string {
	switch {
	case st.ArtifactID != "":
		return st.ArtifactID
	case r.Config.ArtifactID != "":
		return r.Config.ArtifactID
	default:
		return m.Name
	}
}

func (r *Runner) bumpVersion(ctx context.Context, st *State) error {
	next := st.RequestedNextVersion
	if next == "" {
		next = api.DefaultNextVersion
	}

	if err := r.Versions.SetVersion(ctx, next); err != nil {
		return failed("Version bump", err)
	}
	return nil
}

func (r *Runner) commitBump(ctx context.Context) error {
	m, err := r.loadManifest()
	if err != nil {
		return err
	}

	msg, err := r.message("nextIteration", r.Config.Messages.NextIteration, messageData{Name: m.Name, Version: m.Version})
	if err != nil {
		return err
	}

	if err := r.VCS.Commit(ctx, msg, r.manifestPath()); err != nil {
		return failed("Version bump commit", err)
	}

	slog.Info("prepared next development iteration", "version", m.Version)
	return nil
}
