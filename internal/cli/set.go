package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/litekv/litekv/internal/kv"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	JSON bool
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a key",
		Long: `Store a value under a key, overwriting any previous value.

The value is stored as text by default; with --json it is parsed as JSON
first, so lists, objects, numbers, booleans and null can be stored.

Examples:
  litekv --db /tmp/demo.kv set hello world
  litekv --db /tmp/demo.kv set answer --json '["answer", 2]'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "parse the value argument as JSON")

	return cmd
}

func runSet(opts *SetOptions, key, rawValue string, cmd *cobra.Command) error {
	var value any = rawValue
	if opts.JSON {
		v, err := kv.FromJSON([]byte(rawValue))
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --json value", err)
		}
		value = v
	}

	db, err := openDatabase(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := db.Set(cmd.Context(), key, value); err != nil {
		return WrapExitError(ExitCommandError, "set failed", err)
	}
	slog.Debug("value stored", "key", key)
	return nil
}
