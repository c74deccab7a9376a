// Package cli implements the wikigames command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/wikigames/internal/logging"
	"github.com/mesh-intelligence/wikigames/internal/metrics"
	"github.com/mesh-intelligence/wikigames/internal/paths"
	"github.com/mesh-intelligence/wikigames/internal/repository"
	"github.com/mesh-intelligence/wikigames/internal/sqlite"
	"github.com/mesh-intelligence/wikigames/internal/state"
	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is the release version, overridable at link time.
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/wikigames"

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Unclassified errors, such as
// cobra's flag and argument errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       Config
	logger    zerolog.Logger
	closeLog  func() error

	metrics *metrics.Metrics
	ctrl    *state.Controller
}

// NewRootCmd creates the top-level "wikigames" command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{logger: zerolog.Nop()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wikigames",
		Short: "A personal catalog of video games and consoles",
		Long:  "wikigames keeps a local catalog of the games and consoles you own.",
		// Errors are printed once by Run.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newGamesCmd(a))
	root.AddCommand(newConsolesCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{logger: zerolog.Nop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if serr := a.shutdown(); err == nil && serr != nil {
		err = sysError(serr)
	}
	if err != nil {
		fmt.Fprintln(stderr, "wikigames:", err)
	}
	return exitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return userError(fmt.Errorf("configure logging: %w", err))
	}
	a.logger = logging.Component(logger, "cli")
	a.closeLog = closeLog

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
	}
	return nil
}

// storeConfig resolves the data directory for the store.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{Backend: types.BackendSQLite, DataDir: dataDir}, nil
}

// backend returns the process-wide store, attaching it on first use.
func (a *app) backend() (*sqlite.Backend, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, sysError(err)
	}
	b, err := sqlite.Shared(cfg, sqlite.WithLogger(a.logger))
	if err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return b, nil
}

// controller opens the store and returns a controller whose initial load
// has finished.
func (a *app) controller(cmd *cobra.Command) (*state.Controller, error) {
	if a.ctrl != nil {
		return a.ctrl, nil
	}
	b, err := a.backend()
	if err != nil {
		return nil, err
	}
	a.ctrl = state.New(repository.New(b),
		state.WithContext(cmd.Context()),
		state.WithLogger(a.logger),
		state.WithMetrics(a.metrics),
	)
	if err := a.ctrl.LoadTask().Wait(cmd.Context()); err != nil {
		return nil, sysError(err)
	}
	return a.ctrl, nil
}

// shutdown releases everything setup and the commands acquired. Safe to
// call more than once.
func (a *app) shutdown() error {
	if a.ctrl != nil {
		a.ctrl.Close()
		a.ctrl = nil
	}
	err := sqlite.ResetShared()
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
		a.closeLog = nil
	}
	return err
}
