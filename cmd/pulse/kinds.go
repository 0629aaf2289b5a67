// Stateless commands: kinds, validate. These run without an attached store.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chain-telemetry/pulse/pkg/types"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the recognized metric kinds and their acceptance ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range types.Kinds() {
			r, _ := types.KindRange(k)
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s [%d, %d]\n", k, r.Min, r.Max)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <kind> [value]",
	Short: "Check a kind, or a kind and value, without writing anything",
	Long: `Validate reports whether the kind is recognized and, when a value
is given, whether the value falls inside the kind's acceptance range.
Exit status is 0 either way; the verdict goes to stdout.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := types.Kind(args[0])

		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), types.IsValidKind(kind))
			return nil
		}

		value, err := parseInt64("value", args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), types.IsValidMeasurement(kind, value))
		return nil
	},
}
