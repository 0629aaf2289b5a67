// Mutating commands: record, amend, delete, share.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// parseInt64 parses a CLI argument naming an integer value or timestamp.
func parseInt64(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return v, nil
}

var recordCmd = &cobra.Command{
	Use:   "record <kind> <value> <timestamp> [annotation]",
	Short: "Record a measurement under the caller's identity",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerIdentity()
		if err != nil {
			return err
		}
		value, err := parseInt64("value", args[1])
		if err != nil {
			return err
		}
		ts, err := parseInt64("timestamp", args[2])
		if err != nil {
			return err
		}
		annotation := ""
		if len(args) == 4 {
			annotation = args[3]
		}

		if err := store.Record(caller, types.Kind(args[0]), value, ts, annotation); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s=%d at %d\n", args[0], value, ts)
		return nil
	},
}

var amendCmd = &cobra.Command{
	Use:   "amend <kind> <timestamp> <value> [annotation]",
	Short: "Amend an existing observation in place",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerIdentity()
		if err != nil {
			return err
		}
		ts, err := parseInt64("timestamp", args[1])
		if err != nil {
			return err
		}
		value, err := parseInt64("value", args[2])
		if err != nil {
			return err
		}
		annotation := ""
		if len(args) == 4 {
			annotation = args[3]
		}

		if err := store.Amend(caller, ts, types.Kind(args[0]), value, annotation); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "amended %s at %d to %d\n", args[0], ts, value)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <timestamp>",
	Short: "Delete an observation owned by the caller",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerIdentity()
		if err != nil {
			return err
		}
		ts, err := parseInt64("timestamp", args[1])
		if err != nil {
			return err
		}

		if err := store.Delete(caller, ts, types.Kind(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s at %d\n", args[0], ts)
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <recipient> <kind> <timestamp>",
	Short: "Disclose an observation's payload to a recipient",
	Long: `Share reads one of the caller's observations and prints its payload
for delivery to the recipient. Nothing is stored; the read is one-shot and
the recipient gains no standing access.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerIdentity()
		if err != nil {
			return err
		}
		ts, err := parseInt64("timestamp", args[2])
		if err != nil {
			return err
		}

		obs, err := store.Share(caller, args[0], types.Kind(args[1]), ts)
		if err != nil {
			return err
		}
		return printObservation(cmd, obs)
	},
}
