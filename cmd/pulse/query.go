// Query commands: get, latest, count.
package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// observationJSON is the CLI output shape for a single observation.
type observationJSON struct {
	Owner      string `json:"owner"`
	Timestamp  int64  `json:"timestamp"`
	Kind       string `json:"kind"`
	Value      int64  `json:"value"`
	Annotation string `json:"annotation,omitempty"`
}

// printObservation writes an observation as text or JSON per --json.
func printObservation(cmd *cobra.Command, obs *types.Observation) error {
	if flagJSON {
		out, err := json.Marshal(observationJSON{
			Owner:      obs.Owner,
			Timestamp:  obs.Timestamp,
			Kind:       string(obs.Kind),
			Value:      obs.Value,
			Annotation: obs.Annotation,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s@%d = %d", obs.Owner, obs.Kind, obs.Timestamp, obs.Value)
	if obs.Annotation != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s)", obs.Annotation)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

// reportAbsent prints "no data" for a query that found nothing; queries are
// total, so absence is not a command failure.
func reportAbsent(cmd *cobra.Command) error {
	if flagJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "null")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "no data")
	return nil
}

var getCmd = &cobra.Command{
	Use:   "get <owner> <kind> <timestamp>",
	Short: "Look up an observation by its full key",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseInt64("timestamp", args[2])
		if err != nil {
			return err
		}

		obs, err := store.Get(args[0], ts, types.Kind(args[1]))
		if errors.Is(err, types.ErrRecordNotFound) {
			return reportAbsent(cmd)
		}
		if err != nil {
			return err
		}
		return printObservation(cmd, obs)
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest <owner> <kind>",
	Short: "Look up the most recently written observation for a kind",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		obs, err := store.GetLatest(args[0], types.Kind(args[1]))
		if errors.Is(err, types.ErrRecordNotFound) {
			return reportAbsent(cmd)
		}
		if err != nil {
			return err
		}
		return printObservation(cmd, obs)
	},
}

var countCmd = &cobra.Command{
	Use:   "count <owner> <kind>",
	Short: "Count live observations for an owner and kind",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := store.GetCount(args[0], types.Kind(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), count)
		return nil
	},
}
