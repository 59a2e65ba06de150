// Package cli implements the workledger command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/workledger/internal/logging"
	"github.com/mesh-intelligence/workledger/pkg/metrics"
	"github.com/mesh-intelligence/workledger/internal/paths"
	"github.com/mesh-intelligence/workledger/pkg/types"
	"github.com/mesh-intelligence/workledger/pkg/workledger"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the state shared by subcommands.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	cfg      types.Config
	logger   *zap.Logger
	recorder *metrics.Recorder
	ledger   *workledger.Ledger
	now      func() time.Time
}

// NewRootCmd creates the top-level "workledger" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	return &app{logger: zap.NewNop(), now: time.Now}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "workledger",
		Short:   "A personal ledger of dated piece-work income",
		Long:    "workledger records dated work entries (quantity, unit price, total)\nin a local SQLite database and reports on them by month.",
		Version: workledger.Version,

		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.versionCmd(),
		a.initCmd(),
		a.addCmd(),
		a.listCmd(),
		a.rangeCmd(),
		a.statsCmd(),
		a.monthCmd(),
		a.yearCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.migrateCmd(),
	)
	return root
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.dataDir, cfg.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return sysError(fmt.Errorf("invalid config: %w", err))
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if cfg.Metrics.Textfile != "" {
		a.recorder = metrics.New()
	}
	return nil
}

// open returns the ledger, opening it on first use. A ledger whose store
// could not be opened is returned as is; operations on it report not-ready.
func (a *app) open(ctx context.Context, opts ...workledger.Option) (*workledger.Ledger, error) {
	if a.ledger != nil {
		return a.ledger, nil
	}
	opts = append(opts, workledger.WithMetrics(a.recorder))
	l, err := workledger.Open(ctx, a.cfg, a.logger, opts...)
	if err != nil {
		return nil, sysError(err)
	}
	if l.Migrated > 0 {
		a.logger.Info("migrated legacy records", zap.Int("count", l.Migrated))
	}
	a.ledger = l
	return l, nil
}

// close releases the ledger and writes the metrics textfile, if configured.
func (a *app) close() {
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.logger.Warn("closing ledger", zap.Error(err))
		}
		a.ledger = nil
	}
	if a.recorder != nil {
		if err := a.recorder.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("writing metrics textfile", zap.String("path", a.cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the CLI with the given arguments and writers and returns the
// exit code: 0 on success, 1 for user errors, 2 for system errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp()
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// cliError carries an explicit exit code.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }
func userError(err error) error { return &cliError{code: exitUserError, err: err} }

// exitCode maps an error to an exit code. Store errors are classified by
// kind: bad input is a user error, an unavailable or failing store is a
// system error.
func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch types.KindOf(err) {
	case types.KindNotReady, types.KindStorage, types.KindTransaction:
		return exitSysError
	default:
		return exitUserError
	}
}
