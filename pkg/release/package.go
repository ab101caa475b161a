package release

import (
	"context"
	"fmt"

	"github.com/systemstart/maven-release/pkg/archive"
)

// Package builds the archive named by preprocessing. It returns once the
// archive is completely written.
func (r *Runner) Package(ctx context.Context, st *State) error {
	if st.ArchivePath == "" {
		return fmt.Errorf("archive name not resolved, run preprocess first")
	}

	if _, err := archive.Build(ctx, st.Sources, st.BasePath, st.ArchivePath); err != nil {
		return fmt.Errorf("packaging %s: %w", st.ArchiveFileName, err)
	}
	return nil
}
