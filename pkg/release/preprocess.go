package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/manifest"
)

// Preprocess settles version, repository coordinates and archive name for
// mode. In release mode a version differing from the manifest is written
// to the manifest and committed before anything else happens.
func (r *Runner) Preprocess(ctx context.Context, st *State, mode string) error {
	if err := api.ValidateMode(mode); err != nil {
		return err
	}

	m, err := r.loadManifest()
	if err != nil {
		return err
	}

	repo := r.Config.RepositoryFor(mode)
	if repo.URL == "" {
		return fmt.Errorf("%s repository url is not configured", mode)
	}

	st.Mode = mode
	st.Manifest = m
	st.ArtifactID = r.Config.ArtifactID
	if st.ArtifactID == "" {
		st.ArtifactID = m.Name
	}
	st.RepositoryURL = repo.URL
	st.RepositoryID = repo.ID

	var version string
	switch mode {
	case api.ModeRelease:
		version = st.RequestedReleaseVersion
		if version == "" {
			version = m.Version
		}
		if version != m.Version {
			if err := r.prepareVersion(ctx, m, version); err != nil {
				return err
			}
		}
	default:
		version = r.Config.Version
		if version == "" {
			version = m.Version
		}
		version += api.SnapshotSuffix
	}

	st.Version = version
	st.ArchiveFileName = ArchiveFileName(st.ArtifactID, st.Version)
	st.ArchivePath = r.path(filepath.Join(r.Config.OutputDir, st.ArchiveFileName))

	slog.Info("preprocessed", "mode", mode, "artifactId", st.ArtifactID, "version", st.Version,
		"repository", st.RepositoryURL, "archive", st.ArchiveFileName)

	return r.notify(ctx, api.ResolvedVersion{
		Mode:       mode,
		Name:       m.Name,
		GroupID:    st.GroupID,
		ArtifactID: st.ArtifactID,
		Version:    st.Version,
	})
}

// PrepareVersion runs the release preparation on its own: the requested
// release version is written to the manifest and committed.
func (r *Runner) PrepareVersion(ctx context.Context, st *State) error {
	if st.RequestedReleaseVersion == "" {
		return fmt.Errorf("no release version requested")
	}

	m, err := r.loadManifest()
	if err != nil {
		return err
	}
	if m.Version == st.RequestedReleaseVersion {
		slog.Info("manifest already at release version", "version", m.Version)
		return nil
	}
	return r.prepareVersion(ctx, m, st.RequestedReleaseVersion)
}

// prepareVersion rewrites the manifest, then commits it. The commit is
// never attempted when the rewrite failed, and a failed commit leaves the
// rewritten manifest in place.
func (r *Runner) prepareVersion(ctx context.Context, m *manifest.Manifest, version string) error {
	slog.Info("preparing release version", "from", m.Version, "to", version)

	if err := r.Versions.SetVersion(ctx, version); err != nil {
		return failed("Version set", err)
	}

	msg, err := r.message("prepareRelease", r.Config.Messages.PrepareRelease, messageData{
		Name:    m.Name,
		Version: version,
	})
	if err != nil {
		return err
	}

	if err := r.VCS.Commit(ctx, msg); err != nil {
		return failed("Version commit", err)
	}
	return nil
}

func (r *Runner) notify(ctx context.Context, v api.ResolvedVersion) error {
	for _, l := range r.Listeners {
		if err := l.VersionResolved(ctx, v); err != nil {
			return fmt.Errorf("version listener: %w", err)
		}
	}
	return nil
}
