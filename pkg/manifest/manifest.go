package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the project metadata relevant to a release.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// Set by the loader.
	Path string `json:"-"`
}

// Load reads name and version from a package.json style manifest.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filename, err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s: name is required", filename)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("manifest %s: version is required", filename)
	}

	m.Path = filename
	return &m, nil
}
