package release

import (
	"slices"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/manifest"
)

// State is the pipeline state of one invocation. Every stage reads and
// writes it explicitly; nothing is persisted between runs.
type State struct {
	GroupID    string
	ArtifactID string

	RequestedReleaseVersion string
	RequestedNextVersion    string

	// Mode and Manifest are recorded by Preprocess.
	Mode     string
	Manifest *manifest.Manifest

	Version       string
	RepositoryURL string
	RepositoryID  string

	// ArchiveFileName is derived from ArtifactID and Version once the
	// version is final for the active mode.
	ArchiveFileName string
	ArchivePath     string

	Sources  []string
	BasePath string
}

// Options carry the operator's command line overrides.
type Options struct {
	ReleaseVersion     string
	DevelopmentVersion string
	Tag                string
	Debug              bool
}

// NewState creates the state for a fresh invocation.
func NewState(cfg *api.Config, opts Options) *State {
	return &State{
		GroupID:                 cfg.GroupID,
		RequestedReleaseVersion: opts.ReleaseVersion,
		RequestedNextVersion:    opts.DevelopmentVersion,
		Sources:                 slices.Clone(cfg.Sources),
		BasePath:                cfg.BasePath,
	}
}

// ArchiveFileName returns the archive name for an artifact version.
func ArchiveFileName(artifactID, version string) string {
	return artifactID + "-" + version + "." + api.Packaging
}
