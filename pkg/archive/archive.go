package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/zip"
)

// Entry is a file placed in the archive.
type Entry struct {
	Path string // as matched on disk
	Name string // name inside the archive
}

// Result describes a written archive.
type Result struct {
	Path    string
	Entries []Entry
}

// Collect expands globs in declared order and returns the files to archive.
// The first pattern matching a path wins; later matches are skipped. Paths
// outside basePath and anything that is not a regular file are dropped.
func Collect(globs []string, basePath string) ([]Entry, error) {
	seen := make(map[string]bool)
	var entries []Entry

	for _, pattern := range globs {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, file := range matches {
			if seen[file] {
				slog.Debug("skipping already archived file", "file", file, "pattern", pattern)
				continue
			}
			seen[file] = true

			if basePath != "" && !strings.HasPrefix(file, basePath) {
				continue
			}

			info, err := os.Stat(file)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", file, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}

			entries = append(entries, Entry{Path: file, Name: entryName(file, basePath)})
		}
	}

	return entries, nil
}

func entryName(file, basePath string) string {
	name := filepath.ToSlash(strings.TrimPrefix(file, basePath))
	return strings.TrimLeft(name, "/")
}

// Build writes a zip archive of the files selected by globs to dest. It
// returns once the archive is completely written and closed.
func Build(ctx context.Context, globs []string, basePath, dest string) (*Result, error) {
	entries, err := Collect(globs, basePath)
	if err != nil {
		return nil, err
	}

	entries = withoutDestination(entries, dest)

	slog.Info("creating artifact", "archive", dest, "files", len(entries))

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	tmpName := tmp.Name()

	writeErr := writeZip(ctx, tmp, entries)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if writeErr != nil {
			return nil, writeErr
		}
		return nil, fmt.Errorf("closing archive: %w", closeErr)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("moving archive into place: %w", err)
	}

	slog.Info("created artifact", "archive", dest)
	return &Result{Path: dest, Entries: entries}, nil
}

func withoutDestination(entries []Entry, dest string) []Entry {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return entries
	}

	kept := entries[:0:0]
	for _, e := range entries {
		if abs, err := filepath.Abs(e.Path); err == nil && abs == absDest {
			slog.Warn("not adding the archive to itself", "file", e.Path)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func writeZip(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return err
		}
		if err := addFile(zw, e); err != nil {
			_ = zw.Close()
			return fmt.Errorf("adding %s: %w", e.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, e Entry) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = e.Name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}
