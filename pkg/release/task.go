package release

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/systemstart/maven-release/pkg/api"
)

const (
	TaskReleasePrepare = "release-prepare"
	TaskPreprocess     = "preprocess"
	TaskPrepareVersion = "prepare-version"
	TaskPackage        = "package"
	TaskUpload         = "upload"
	TaskTagRelease     = "tag-release"
	TaskBumpVersion    = "bump-version"
	TaskCommitBump     = "commit-bump"
	TaskDeploy         = "deploy"
	TaskRelease        = "release"
)

// Task is a named task with its optional argument (the preprocess mode).
type Task struct {
	Name string
	Arg  string
}

func (t Task) String() string {
	if t.Arg == "" {
		return t.Name
	}
	return t.Name + ":" + t.Arg
}

var composites = map[string][]Task{
	TaskDeploy: {
		{Name: TaskPreprocess, Arg: api.ModeSnapshot},
		{Name: TaskPackage},
		{Name: TaskUpload},
	},
	TaskRelease: {
		{Name: TaskReleasePrepare},
		{Name: TaskPreprocess, Arg: api.ModeRelease},
		{Name: TaskPackage},
		{Name: TaskUpload},
		{Name: TaskTagRelease},
	},
}

var knownTasks = map[string]bool{
	TaskReleasePrepare: true,
	TaskPreprocess:     true,
	TaskPrepareVersion: true,
	TaskPackage:        true,
	TaskUpload:         true,
	TaskTagRelease:     true,
	TaskBumpVersion:    true,
	TaskCommitBump:     true,
	TaskDeploy:         true,
	TaskRelease:        true,
}

// ParseTasks turns command line arguments into tasks. The preprocess mode is
// given either as "preprocess:<mode>" or as the following argument.
// Composite tasks are expanded in place.
func ParseTasks(args []string) ([]Task, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no task given")
	}

	var tasks []Task
	for i := 0; i < len(args); i++ {
		name, arg, _ := strings.Cut(args[i], ":")
		if !knownTasks[name] {
			return nil, fmt.Errorf("unknown task: %s", args[i])
		}

		if name == TaskPreprocess {
			if arg == "" {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("preprocess requires a mode (%s or %s)", api.ModeSnapshot, api.ModeRelease)
				}
				i++
				arg = args[i]
			}
			if err := api.ValidateMode(arg); err != nil {
				return nil, err
			}
		} else if arg != "" {
			return nil, fmt.Errorf("task %s takes no argument", name)
		}

		if expanded, ok := composites[name]; ok {
			tasks = append(tasks, expanded...)
			continue
		}
		tasks = append(tasks, Task{Name: name, Arg: arg})
	}

	return tasks, nil
}

// Step is a single pipeline stage bound to a runner.
type Step interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

type step struct {
	name string
	run  func(ctx context.Context, st *State) error
}

func (s *step) Name() string { return s.name }

func (s *step) Run(ctx context.Context, st *State) error { return s.run(ctx, st) }

// NewStep creates the Step implementing t.
func (r *Runner) NewStep(t Task) (Step, error) {
	var run func(ctx context.Context, st *State) error

	switch t.Name {
	case TaskReleasePrepare:
		run = r.Negotiate
	case TaskPreprocess:
		mode := t.Arg
		run = func(ctx context.Context, st *State) error { return r.Preprocess(ctx, st, mode) }
	case TaskPrepareVersion:
		run = r.PrepareVersion
	case TaskPackage:
		run = r.Package
	case TaskUpload:
		run = r.Upload
	case TaskTagRelease:
		run = r.finalizeFrom(StateTag)
	case TaskBumpVersion:
		run = r.finalizeFrom(StateBump)
	case TaskCommitBump:
		run = r.finalizeFrom(StateCommitBump)
	default:
		return nil, fmt.Errorf("unknown task: %s", t)
	}

	return &step{name: t.String(), run: run}, nil
}

func (r *Runner) finalizeFrom(from FinalizeState) func(ctx context.Context, st *State) error {
	return func(ctx context.Context, st *State) error { return r.Finalize(ctx, st, from) }
}

// Run executes tasks sequentially against st and stops at the first failure.
func (r *Runner) Run(ctx context.Context, st *State, tasks []Task) error {
	for _, t := range tasks {
		s, err := r.NewStep(t)
		if err != nil {
			return err
		}

		slog.Info("running step", "step", s.Name())
		if err := s.Run(ctx, st); err != nil {
			return fmt.Errorf("step %q failed: %w", s.Name(), err)
		}
	}
	return nil
}
