package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litekv/litekv/internal/kv"
)

// dumpEntry is one key/value pair of the dump output.
type dumpEntry struct {
	Key   kv.Value `json:"key"`
	Value kv.Value `json:"value"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the whole store as JSON",
		Long: `Print every entry as an indented JSON array of {key, value}
objects, in insertion order.

Example:
  litekv --db /tmp/demo.kv dump`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, cmd)
		},
	}
}

func runDump(opts *RootOptions, cmd *cobra.Command) error {
	db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	items, err := db.Items(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "dump failed", err)
	}

	entries := make([]dumpEntry, len(items))
	for i, it := range items {
		entries[i] = dumpEntry{Key: it.Key, Value: it.Value}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "encode dump", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
