package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/systemstart/maven-release/pkg/tools"
)

const (
	BumpMajor      = "major"
	BumpMinor      = "minor"
	BumpPatch      = "patch"
	BumpPremajor   = "premajor"
	BumpPreminor   = "preminor"
	BumpPrepatch   = "prepatch"
	BumpPrerelease = "prerelease"
)

// VersionSetter rewrites the manifest version. spec is either an explicit
// version or one of the bump keywords.
type VersionSetter interface {
	SetVersion(ctx context.Context, spec string) error
}

// NpmSetter delegates to `npm version <spec>`. npm only rewrites the
// manifest; commits and tags are left to the configured VCS.
type NpmSetter struct {
	Runner tools.Runner
	Dir    string
}

// NewNpmSetter creates a setter running npm in dir.
func NewNpmSetter(runner tools.Runner, dir string) *NpmSetter {
	return &NpmSetter{Runner: runner, Dir: dir}
}

func (s *NpmSetter) SetVersion(ctx context.Context, spec string) error {
	slog.Info("setting version", "tool", "npm", "version", spec)

	_, err := s.Runner.Run(ctx, tools.Command{
		Name: "npm",
		Args: []string{"version", "--no-git-tag-version", spec},
		Dir:  s.Dir,
	})
	if err != nil {
		return fmt.Errorf("npm version %s: %w", spec, err)
	}
	return nil
}

// NativeSetter rewrites the top-level version field of the manifest file in place,
// leaving the rest of the document untouched.
type NativeSetter struct {
	Path string
}

// NewNativeSetter creates a setter rewriting the manifest at path.
func NewNativeSetter(path string) *NativeSetter {
	return &NativeSetter{Path: path}
}

func (s *NativeSetter) SetVersion(_ context.Context, spec string) error {
	m, err := Load(s.Path)
	if err != nil {
		return err
	}

	next, err := NextVersion(m.Version, spec)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	start, end, ok := topLevelVersion(data)
	if !ok {
		return fmt.Errorf("manifest %s: version field not found", s.Path)
	}

	out := make([]byte, 0, len(data)+len(next))
	out = append(out, data[:start]...)
	out = append(out, next...)
	out = append(out, data[end:]...)

	if err := writeFileAtomic(s.Path, out); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	slog.Info("set version", "manifest", s.Path, "from", m.Version, "to", next)
	return nil
}

// NextVersion resolves spec against current the way `npm version` does.
// Bump keywords increment the named component, the pre* keywords produce
// numbered prereleases; anything else must be a semantic version,
// optionally prefixed with "v".
func NextVersion(current, spec string) (string, error) {
	switch spec {
	case BumpMajor, BumpMinor, BumpPatch, BumpPremajor, BumpPreminor, BumpPrepatch, BumpPrerelease:
		v, err := semver.NewVersion(current)
		if err != nil {
			return "", fmt.Errorf("current version %q: %w", current, err)
		}
		next, err := bump(v, spec)
		if err != nil {
			return "", err
		}
		return next.String(), nil
	}

	v, err := semver.StrictNewVersion(strings.TrimPrefix(spec, "v"))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", spec, err)
	}
	return v.String(), nil
}

func bump(v *semver.Version, spec string) (semver.Version, error) {
	switch spec {
	case BumpMajor:
		if v.Prerelease() != "" && v.Minor() == 0 && v.Patch() == 0 {
			return withoutPrerelease(v)
		}
		return v.IncMajor(), nil
	case BumpMinor:
		if v.Prerelease() != "" && v.Patch() == 0 {
			return withoutPrerelease(v)
		}
		return v.IncMinor(), nil
	case BumpPatch:
		return v.IncPatch(), nil
	case BumpPremajor:
		return v.IncMajor().SetPrerelease("0")
	case BumpPreminor:
		return v.IncMinor().SetPrerelease("0")
	case BumpPrepatch:
		return nextPrepatch(v)
	default:
		if v.Prerelease() == "" {
			return nextPrepatch(v)
		}
		return v.SetPrerelease(nextPrerelease(v.Prerelease()))
	}
}

func withoutPrerelease(v *semver.Version) (semver.Version, error) {
	return v.SetPrerelease("")
}

// nextPrepatch starts the prerelease series of the next patch version.
func nextPrepatch(v *semver.Version) (semver.Version, error) {
	next := semver.New(v.Major(), v.Minor(), v.Patch()+1, "0", "")
	return *next, nil
}

// nextPrerelease increments the last numeric identifier of pre, appending
// ".0" when there is none.
func nextPrerelease(pre string) string {
	ids := strings.Split(pre, ".")
	for i := len(ids) - 1; i >= 0; i-- {
		if n, err := strconv.ParseUint(ids[i], 10, 64); err == nil {
			ids[i] = strconv.FormatUint(n+1, 10)
			return strings.Join(ids, ".")
		}
	}
	return pre + ".0"
}

// IsSemver reports whether v parses as a strict semantic version, with an
// optional "v" prefix.
func IsSemver(v string) bool {
	_, err := semver.StrictNewVersion(strings.TrimPrefix(v, "v"))
	return err == nil
}

// topLevelVersion locates the value of the "version" key of the outermost
// object and returns the byte range between its quotes.
func topLevelVersion(data []byte) (start, end int, ok bool) {
	depth := 0
	for i := 0; i < len(data); {
		switch data[i] {
		case '{', '[':
			depth++
			i++
		case '}', ']':
			depth--
			i++
		case '"':
			keyEnd := stringEnd(data, i)
			if depth == 1 && keyEnd-1 > i && string(data[i+1:keyEnd-1]) == "version" {
				j := skipSpace(data, keyEnd)
				if j < len(data) && data[j] == ':' {
					j = skipSpace(data, j+1)
					if j < len(data) && data[j] == '"' {
						return j + 1, stringEnd(data, j) - 1, true
					}
				}
			}
			i = keyEnd
		default:
			i++
		}
	}
	return 0, 0, false
}

// stringEnd returns the index just past the closing quote of the JSON string
// starting at i.
func stringEnd(data []byte, i int) int {
	for j := i + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(data)
}

func skipSpace(data []byte, i int) int {
	for i < len(data) && (data[i] == ' ' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r') {
		i++
	}
	return i
}

func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
