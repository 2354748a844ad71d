// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"keebi-cli/internal/config"
	"keebi-cli/internal/input"
	"keebi-cli/internal/input/robot"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference instead of reaching for package globals.
	App struct {
		Config config.Provider
		// Input builds the OS input simulator for non-dry runs.
		Input input.Factory

		configDir string
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Input  input.Factory
		// ConfigDir overrides the platform configuration directory.
		ConfigDir string
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// rootOptions holds the persistent flag values of one command tree.
	rootOptions struct {
		cfgFile    string
		verbose    bool
		dryRun     bool
		scriptsDir string
	}

	// session is the loaded configuration and logger for one invocation.
	session struct {
		cfg    *config.Config
		logger *log.Logger
		dryRun bool
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		Input:     deps.Input,
		configDir: deps.ConfigDir,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Input == nil {
		app.Input = robot.New
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadSession loads the configuration and builds the logger. Flags win over
// the config file.
func (a *App) loadSession(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: opts.cfgFile,
		ConfigDirPath:  a.configDir,
	})
	if err != nil {
		return nil, err
	}

	if opts.scriptsDir != "" {
		cfg.Scripts.Dir = opts.scriptsDir
	} else if cfg.Scripts.Dir == "" && a.configDir != "" {
		cfg.Scripts.Dir = a.configDir
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = config.LogLevelDebug
	}

	return &session{
		cfg:    cfg,
		logger: newLogger(a.stderr, level),
		dryRun: opts.dryRun || cfg.Input.DryRun,
	}, nil
}

// inputFactory returns the simulator factory for this session. Dry runs
// record events and log them instead of touching the OS.
func (s *session) inputFactory(live input.Factory) input.Factory {
	if !s.dryRun {
		return live
	}
	rec := input.NewRecorder()
	rec.OnEvent = func(ev input.Event) error {
		s.logger.Info("dry-run", "event", ev.String())
		return nil
	}
	return input.RecorderFactory(rec)
}

// newLogger creates the CLI logger writing to w.
func newLogger(w io.Writer, level config.LogLevel) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
