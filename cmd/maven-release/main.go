package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/systemstart/maven-release/pkg/api"
	"github.com/systemstart/maven-release/pkg/logging"
	"github.com/systemstart/maven-release/pkg/prompt"
	"github.com/systemstart/maven-release/pkg/release"
	"github.com/systemstart/maven-release/pkg/tools"
)

var version = "dev"

const (
	_ = iota
	exitNoTask
	exitLoggingSetupFailed
	exitDotenvError
	exitLoadConfigurationFileFailed
	exitChangeDirectoryFailed
	exitRunnerSetupFailed
	exitToolErrors
)

var (
	configFile         string
	releaseVersion     string
	developmentVersion string
	tagName            string
	debug              bool
	nonInteractive     bool
	loggingType        string
	logLevel           string
	showVersion        bool
)

func init() {
	flag.StringVar(
		&configFile,
		"config",
		api.DefaultConfigFile,
		"release configuration file")
	flag.StringVar(
		&releaseVersion,
		"release-version",
		"",
		"version to release (prompted for when empty)")
	flag.StringVar(
		&developmentVersion,
		"development-version",
		"",
		"next development version or major, minor, patch, premajor, preminor, prepatch, prerelease (prompted for when empty)")
	flag.StringVar(
		&tagName,
		"tag",
		"",
		"release tag name (default: <artifactId>-<version>)")
	flag.BoolVar(
		&debug,
		"debug",
		false,
		"pass --debug to the deploy tool")
	flag.BoolVar(
		&nonInteractive,
		"non-interactive",
		false,
		"never prompt, use defaults for missing versions")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <task> [<task> ...]\n\n"+
				"Tasks: release-prepare, preprocess <snapshot|release>, prepare-version, package,\n"+
				"       upload, tag-release, bump-version, commit-bump, deploy, release\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := logging.Initialize(os.Stderr, loggingType, logLevel); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(exitLoggingSetupFailed)
	}

	tasks, err := release.ParseTasks(flag.Args())
	if err != nil {
		slog.Error("invalid tasks", "error", err)
		flag.Usage()
		os.Exit(exitNoTask)
	}

	includeEnv()
	cfg := loadConfig()

	opts := release.Options{
		ReleaseVersion:     releaseVersion,
		DevelopmentVersion: developmentVersion,
		Tag:                tagName,
		Debug:              debug,
	}

	runner, err := release.NewRunner(cfg, tools.NewExecRunner(), newPrompter(), opts)
	if err != nil {
		slog.Error("failed to set up release runner", "error", err)
		os.Exit(exitRunnerSetupFailed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx, release.NewState(cfg, opts), tasks); err != nil {
		slog.Error("release failed", "error", err)
		stop()
		os.Exit(exitCode(err))
	}

	slog.Info("done")
}

// exitCode propagates the exit code of a failed external tool.
func exitCode(err error) int {
	if code, ok := tools.ExitCode(err); ok && code > 0 {
		return code
	}
	return exitToolErrors
}

func loadConfig() *api.Config {
	cfg, err := api.LoadConfig(configFile)
	if err != nil {
		slog.Error("failed to load configuration", "filename", configFile, "error", err)
		os.Exit(exitLoadConfigurationFileFailed)
	}

	// source globs are relative to the project directory
	if err := os.Chdir(cfg.Dir); err != nil {
		slog.Error("failed to change into project directory", "directory", cfg.Dir, "error", err)
		os.Exit(exitChangeDirectoryFailed)
	}
	return cfg
}

func newPrompter() prompt.Prompter {
	switch {
	case nonInteractive:
		return prompt.Static{}
	case logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stdout):
		return prompt.NewTerminalPrompter(os.Stdin, os.Stdout)
	default:
		return prompt.NewLinePrompter(os.Stdin, os.Stdout)
	}
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}
