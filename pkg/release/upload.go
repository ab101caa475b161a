package release

import (
	"context"
	"fmt"

	"github.com/systemstart/maven-release/pkg/deploy"
)

// Upload deploys the packaged archive to the repository selected by
// preprocessing. There is exactly one attempt.
func (r *Runner) Upload(ctx context.Context, st *State) error {
	if st.ArchivePath == "" {
		return fmt.Errorf("archive name not resolved, run preprocess first")
	}

	err := r.Deployer.Deploy(ctx, deploy.Artifact{
		File:          st.ArchivePath,
		GroupID:       st.GroupID,
		ArtifactID:    st.ArtifactID,
		Version:       st.Version,
		RepositoryURL: st.RepositoryURL,
		RepositoryID:  st.RepositoryID,
	})
	if err != nil {
		return failed("Deployment", err)
	}
	return nil
}
