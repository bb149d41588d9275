package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/litekv/litekv/internal/kv"
)

// NewDelCommand creates the del command.
func NewDelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>",
		Short: "Delete a key",
		Long: `Delete a key and its value.

Exits with status 1 if the key does not exist.

Example:
  litekv --db /tmp/demo.kv del hello`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDel(rootOpts, args[0], cmd)
		},
	}
}

func runDel(opts *RootOptions, key string, cmd *cobra.Command) error {
	db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	err = db.Delete(cmd.Context(), key)
	if kv.IsKeyNotFound(err) {
		return NewExitError(ExitFailure, fmt.Sprintf("key %q not found", key))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "del failed", err)
	}
	slog.Debug("key deleted", "key", key)
	return nil
}
