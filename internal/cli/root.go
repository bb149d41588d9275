package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litekv/litekv/internal/kv"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database   string
	Table      string
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the litekv CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "litekv",
		Short: "Key/value store backed by SQLite",
		Long: `litekv is a persistent key/value store backed by a single SQLite file.

Keys given on the command line are text; values are stored as JSON.

Examples:
  litekv --db /tmp/demo.kv set hello world
  litekv --db /tmp/demo.kv get hello
  litekv --db /tmp/demo.kv set answer --json '["answer", 2, {"ultimate": "question"}]'
  litekv --db /tmp/demo.kv dump`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the backing SQLite file")
	cmd.PersistentFlags().StringVarP(&opts.Table, "table", "t", "", "backing table name (default \"data\")")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewDelCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))

	return cmd
}

// configureLogging installs the default slog handler based on the
// verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// openDatabase resolves flags against the optional config file and opens
// the store.
func openDatabase(opts *RootOptions) (*kv.KV, error) {
	var cfg Config
	if opts.ConfigPath != "" {
		var err error
		cfg, err = LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	path := opts.Database
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no database given: use --db or the config file")
	}

	table := opts.Table
	if table == "" {
		table = cfg.Table
	}

	var kvOpts []kv.Option
	if table != "" {
		kvOpts = append(kvOpts, kv.WithTable(table))
	}
	if cfg.BusyTimeoutMS > 0 {
		kvOpts = append(kvOpts, kv.WithBusyTimeout(time.Duration(cfg.BusyTimeoutMS)*time.Millisecond))
	}

	slog.Debug("opening database", "path", path, "table", table)
	db, err := kv.Open(path, kvOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %q", path), err)
	}
	return db, nil
}

// closeDatabase closes the store, logging instead of failing the command
// when the close itself errors.
func closeDatabase(db *kv.KV) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
