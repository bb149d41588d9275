package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all keys",
		Long: `List all keys, one per line, in insertion order.

Keys print as JSON so text, numeric and null keys stay distinguishable.

Example:
  litekv --db /tmp/demo.kv keys`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(rootOpts, cmd)
		},
	}
}

func runKeys(opts *RootOptions, cmd *cobra.Command) error {
	db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	keys, err := db.Keys(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "keys failed", err)
	}

	for _, key := range keys {
		data, err := json.Marshal(key)
		if err != nil {
			return WrapExitError(ExitCommandError, "encode key", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
