package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/config"
	mljson "github.com/fwojciec/mindlab/json"
	"github.com/fwojciec/mindlab/serial"
	"github.com/fwojciec/mindlab/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	configPath string
	device     string
	theme      string
	logFile    string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	out    io.Writer

	// ports and transport reach the hardware; replaced in tests.
	ports     serial.Lister
	transport func(port string, baud int) mindlab.Transport
}

func newApp() *app {
	return &app{
		logger:    zap.NewNop(),
		out:       os.Stdout,
		ports:     serial.SystemPorts,
		transport: func(port string, baud int) mindlab.Transport {
			return serial.NewDevice(port, baud)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "mindlab",
		Short:         "Timed cognitive tests and an obstacle dodger for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(a.out)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "path to config.toml (default ~/.config/mindlab/config.toml)")
	f.StringVar(&a.device, "device", "", "serial port of the input device (default: auto-detect)")
	f.StringVar(&a.theme, "theme", "", "color theme")
	f.StringVar(&a.logFile, "log-file", "", "log destination (default <data_dir>/mindlab.log)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFocusCmd(a),
		newReflexCmd(a),
		newSpanCmd(a),
		newSymbolCmd(a),
		newPuzzleCmd(a),
		newDodgerCmd(a),
		newPortsCmd(a),
		newHighScoreCmd(a),
	)
	return root
}

// setup loads the config and builds the logger. Flags override config.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(config.DefaultPath())
	}
	if err != nil {
		return err
	}
	if a.theme != "" {
		a.cfg.Theme = a.theme
	}
	if a.device != "" {
		a.cfg.Serial.Port = a.device
	}
	if a.logFile != "" {
		a.cfg.LogFile = a.logFile
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if !needsLogger(cmd) {
		return nil
	}
	a.logger, err = newLogger(a.cfg.ResolvedLogFile(), a.verbose)
	return err
}

// needsLogger reports whether cmd runs the TUI. Plain listing commands
// write to stdout and keep the no-op logger.
func needsLogger(cmd *cobra.Command) bool {
	return cmd.Annotations["tui"] == "true"
}

// newLogger logs JSON to path. The TUI owns the terminal, so nothing goes
// to stderr.
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, nil
}

// openStore opens the configured high score store along with the func that
// releases it.
func (a *app) openStore(ctx context.Context) (mindlab.HighScoreStore, func() error, error) {
	path := a.cfg.ResolvedStorePath()
	if a.cfg.ResolvedStore() == config.StoreSQLite {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return mljson.NewStore(path), func() error { return nil }, nil
}

func tuiAnnotations() map[string]string {
	return map[string]string{"tui": "true"}
}
