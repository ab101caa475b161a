package release

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/deploy"
	"github.com/systemstart/maven-release/pkg/prompt"
)

// callLog records the external operations of a test run in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) { l.calls = append(l.calls, call) }

type fakeVersions struct {
	log *callLog
	err error
}

func (f *fakeVersions) SetVersion(_ context.Context, spec string) error {
	f.log.add("set-version " + spec)
	return f.err
}

type fakeVCS struct {
	log       *callLog
	commitErr error
	tagErr    error
	files     [][]string
}

func (f *fakeVCS) Commit(_ context.Context, message string, files ...string) error {
	f.log.add("commit " + message)
	f.files = append(f.files, files)
	return f.commitErr
}

func (f *fakeVCS) Tag(_ context.Context, name, message string) error {
	f.log.add("tag " + name + " " + message)
	return f.tagErr
}

type fakeDeployer struct {
	log       *callLog
	err       error
	artifacts []deploy.Artifact
}

func (f *fakeDeployer) Deploy(_ context.Context, a deploy.Artifact) error {
	f.log.add("deploy " + filepath.Base(a.File) + " " + a.Version)
	f.artifacts = append(f.artifacts, a)
	return f.err
}

type fakePrompter struct {
	answers   map[string]string
	questions []prompt.Question
	err       error
}

func (f *fakePrompter) Ask(_ context.Context, q prompt.Question) (string, error) {
	f.questions = append(f.questions, q)
	if f.err != nil {
		return "", f.err
	}
	if a, ok := f.answers[q.Message]; ok {
		return a, nil
	}
	return q.Default, nil
}

type fakeListener struct {
	log  *callLog
	seen []api.ResolvedVersion
	err  error
}

func (f *fakeListener) VersionResolved(_ context.Context, v api.ResolvedVersion) error {
	f.log.add("resolved " + v.Version)
	f.seen = append(f.seen, v)
	return f.err
}

type testEnv struct {
	dir      string
	log      *callLog
	cfg      *api.Config
	runner   *Runner
	versions *fakeVersions
	vcs      *fakeVCS
	deployer *fakeDeployer
	prompter *fakePrompter
}

// newTestEnv creates a project with the given manifest, changes into it and
// wires a runner with recording fakes.
func newTestEnv(t *testing.T, manifestJSON string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "package.json"), manifestJSON)
	writeFile(t, filepath.Join(dir, "dist", "index.js"), "module.exports = {};")
	writeFile(t, filepath.Join(dir, "dist", "lib", "util.js"), "util")
	t.Chdir(dir)

	cfg := &api.Config{
		GroupID:  "com.example",
		BasePath: "dist/",
		Sources:  []string{"dist/**/*"},
		Snapshot: api.Repository{URL: "https://repo.example.com/snapshots", ID: "snapshots"},
		Release:  api.Repository{URL: "https://repo.example.com/releases", ID: "releases"},
		Dir:      dir,
	}
	cfg.ApplyDefaults()

	log := &callLog{}
	env := &testEnv{
		dir:      dir,
		log:      log,
		cfg:      cfg,
		versions: &fakeVersions{log: log},
		vcs:      &fakeVCS{log: log},
		deployer: &fakeDeployer{log: log},
		prompter: &fakePrompter{},
	}
	env.runner = &Runner{
		Config:   cfg,
		Prompter: env.prompter,
		Versions: env.versions,
		VCS:      env.vcs,
		Deployer: env.deployer,
	}
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
