package api

const (
	DefaultConfigFile  = ".release.yaml"
	DefaultManifest    = "package.json"
	DefaultOutputDir   = "."
	DefaultDeployTool  = "mvn"
	DefaultNextVersion = "patch"

	// Packaging is the archive container format and the Maven packaging type.
	Packaging = "zip"

	SnapshotSuffix = "-SNAPSHOT"

	ModeSnapshot = "snapshot"
	ModeRelease  = "release"

	VCSMercurial = "hg"
	VCSGit       = "git"
	VCSGoGit     = "go-git"

	VersionToolNpm    = "npm"
	VersionToolNative = "native"

	DefaultPrepareReleaseMessage = "[release] Prepare release of {{ .Name }}-{{ .Version }}"
	DefaultTagMessage            = "[release] Release of {{ .Tag }}"
	DefaultNextIterationMessage  = "[release] prepare for next development iteration"
)

// Config is the .release.yaml configuration format.
type Config struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	// Version replaces the manifest version as the base of snapshot builds.
	Version string `yaml:"version"`

	Manifest  string   `yaml:"manifest"`
	BasePath  string   `yaml:"basePath"`
	Sources   []string `yaml:"sources"`
	OutputDir string   `yaml:"outputDir"`

	Snapshot Repository `yaml:"snapshot"`
	Release  Repository `yaml:"release"`

	Debug       bool   `yaml:"debug"`
	VCS         string `yaml:"vcs"`
	VersionTool string `yaml:"versionTool"`
	DeployTool  string `yaml:"deployTool"`

	Messages Messages         `yaml:"messages"`
	Generate []GenerateConfig `yaml:"generate"`

	// Set by the loader, not from YAML.
	Dir      string `yaml:"-"`
	FilePath string `yaml:"-"`
}

// Repository holds the coordinates of a Maven repository.
type Repository struct {
	URL string `yaml:"url"`
	ID  string `yaml:"id"`
}

// Messages are text/template sources for the commit and tag messages.
type Messages struct {
	PrepareRelease string `yaml:"prepareRelease"`
	Tag            string `yaml:"tag"`
	NextIteration  string `yaml:"nextIteration"`
}

// GenerateConfig describes a file rendered from the resolved version before packaging.
type GenerateConfig struct {
	Output   string `yaml:"output"`
	Template string `yaml:"template"`
}

// RepositoryFor returns the repository coordinates used by mode.
func (c *Config) RepositoryFor(mode string) Repository {
	if mode == ModeRelease {
		return c.Release
	}
	return c.Snapshot
}

// ResolvedVersion is published once preprocessing has settled the artifact version.
type ResolvedVersion struct {
	Mode       string
	Name       string // manifest name
	GroupID    string
	ArtifactID string
	Version    string
}
