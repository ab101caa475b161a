package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/maven-release/pkg/api"
)

// Render executes a text/template with the sprig function map.
func Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// Generator writes version-stamped source files whenever a version is resolved.
type Generator struct {
	WorkDir string
	Files   []api.GenerateConfig
}

// NewGenerator creates a generator writing below workDir.
func NewGenerator(workDir string, files []api.GenerateConfig) *Generator {
	return &Generator{WorkDir: workDir, Files: files}
}

func (g *Generator) VersionResolved(ctx context.Context, v api.ResolvedVersion) error {
	for _, f := range g.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.generate(f, v); err != nil {
			return fmt.Errorf("generating %s: %w", f.Output, err)
		}
	}
	return nil
}

func (g *Generator) generate(f api.GenerateConfig, v api.ResolvedVersion) error {
	content, err := Render(f.Output, f.Template, v)
	if err != nil {
		return err
	}

	outPath := f.Output
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(g.WorkDir, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	slog.Info("generated source", "output", f.Output, "version", v.Version)
	return nil
}
