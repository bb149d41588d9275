package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litekv/litekv/internal/kv"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a key",
		Long: `Print the value stored under a key.

String values print as bare text; everything else prints as JSON.
Exits with status 1 if the key does not exist.

Example:
  litekv --db /tmp/demo.kv get hello`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, key string, cmd *cobra.Command) error {
	db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	v, err := db.Get(cmd.Context(), key)
	if kv.IsKeyNotFound(err) {
		return NewExitError(ExitFailure, fmt.Sprintf("key %q not found", key))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "get failed", err)
	}

	return printValue(cmd, v)
}

// printValue writes a value to the command's stdout: strings as bare
// text (the stored text, not its JSON quoting), everything else as JSON.
func printValue(cmd *cobra.Command, v kv.Value) error {
	if s, ok := v.(kv.String); ok {
		fmt.Fprintln(cmd.OutOrStdout(), string(s))
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode value", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
