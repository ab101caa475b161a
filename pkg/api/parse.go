package api

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a .release.yaml file, expands environment references in
// plain values, applies defaults and validates it.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	c.expandEnv()

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	c.FilePath = absPath
	c.Dir = filepath.Dir(absPath)

	c.ApplyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", filename, err)
	}

	return &c, nil
}

// expandEnv resolves ${VAR} references in every plain value. Message and
// generate templates are left alone, their $ belongs to text/template.
func (c *Config) expandEnv() {
	for _, f := range []*string{
		&c.GroupID, &c.ArtifactID, &c.Version, &c.Manifest, &c.BasePath, &c.OutputDir,
		&c.Snapshot.URL, &c.Snapshot.ID, &c.Release.URL, &c.Release.ID,
		&c.VCS, &c.VersionTool, &c.DeployTool,
	} {
		*f = os.ExpandEnv(*f)
	}
	for i := range c.Sources {
		c.Sources[i] = os.ExpandEnv(c.Sources[i])
	}
	for i := range c.Generate {
		c.Generate[i].Output = os.ExpandEnv(c.Generate[i].Output)
	}
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.VCS == "" {
		c.VCS = VCSMercurial
	}
	if c.VersionTool == "" {
		c.VersionTool = VersionToolNpm
	}
	if c.DeployTool == "" {
		c.DeployTool = DefaultDeployTool
	}
	if c.Messages.PrepareRelease == "" {
		c.Messages.PrepareRelease = DefaultPrepareReleaseMessage
	}
	if c.Messages.Tag == "" {
		c.Messages.Tag = DefaultTagMessage
	}
	if c.Messages.NextIteration == "" {
		c.Messages.NextIteration = DefaultNextIterationMessage
	}
}
