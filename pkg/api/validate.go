package api

import (
	"fmt"
	"slices"
	"strings"
)

var validVCS = []string{VCSMercurial, VCSGit, VCSGoGit}

var validVersionTools = []string{VersionToolNpm, VersionToolNative}

// Validate checks the release configuration for errors.
func (c *Config) Validate() error {
	if c.GroupID == "" {
		return fmt.Errorf("groupId is required")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("sources must list at least one glob")
	}
	for i, src := range c.Sources {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("sources[%d]: empty glob", i)
		}
	}

	if !slices.Contains(validVCS, c.VCS) {
		return fmt.Errorf("vcs %q is not valid (valid: %s)", c.VCS, strings.Join(validVCS, ", "))
	}
	if !slices.Contains(validVersionTools, c.VersionTool) {
		return fmt.Errorf("versionTool %q is not valid (valid: %s)", c.VersionTool, strings.Join(validVersionTools, ", "))
	}

	outputs := make(map[string]bool)
	for i, g := range c.Generate {
		if g.Output == "" {
			return fmt.Errorf("generate[%d]: output is required", i)
		}
		if g.Template == "" {
			return fmt.Errorf("generate[%d]: template is required", i)
		}
		if outputs[g.Output] {
			return fmt.Errorf("generate[%d]: duplicate output %q", i, g.Output)
		}
		outputs[g.Output] = true
	}

	return nil
}

// ValidateMode checks that mode names a known preprocessing profile.
func ValidateMode(mode string) error {
	switch mode {
	case ModeSnapshot, ModeRelease:
		return nil
	default:
		return fmt.Errorf("unknown mode %q (valid: %s, %s)", mode, ModeSnapshot, ModeRelease)
	}
}
