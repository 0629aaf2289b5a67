// Package main provides the pulse CLI, the host environment for the
// observation store. The CLI supplies the two collaborators the core
// depends on: the caller identity (flag or config) and the trusted clock
// (system time).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chain-telemetry/pulse/pkg/pulse"
	"github.com/chain-telemetry/pulse/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagIdentity  string
	flagJSON      bool
	flagVerbose   bool
)

// store is the attached observation store, initialized by PersistentPreRunE
// for commands that need one.
var store types.Store

// cfg holds the loaded CLI configuration.
var cfg *cliConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse is a validated per-node chain telemetry store",
	Long: `Pulse records timestamped network-health measurements (consensus
latency, block propagation, staker participation, ...) per node identity,
each kind validated against its own acceptance range. Records can be
amended, deleted, shared, and queried by key, latest value, or count.`,
	Version:            pulse.Version,
	PersistentPreRunE:  openStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return closeStore() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.pulse-db)")
	rootCmd.PersistentFlags().StringVar(&flagIdentity, "identity", "", "caller identity (default: identity from config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(amendCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(validateCmd)
}

// statelessCommands run without an attached store.
var statelessCommands = map[string]bool{
	"kinds":      true,
	"validate":   true,
	"help":       true,
	"init":       true,
	"completion": true,
}

// openStore loads config and attaches the observation store.
func openStore(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if statelessCommands[cmd.Name()] {
		return nil
	}

	logger := zap.NewNop()
	if flagVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	store, err = pulse.Open(types.Config{
		Backend: cfg.backend,
		DataDir: cfg.dataDir,
	}, types.SystemClock{}, logger)
	if err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	return nil
}

// closeStore detaches the store and releases resources.
func closeStore() error {
	if store != nil {
		return store.Detach()
	}
	return nil
}

// callerIdentity resolves the caller identity for mutating commands:
// --identity flag > identity from config.yaml.
func callerIdentity() (string, error) {
	if flagIdentity != "" {
		return flagIdentity, nil
	}
	if cfg != nil && cfg.identity != "" {
		return cfg.identity, nil
	}
	return "", fmt.Errorf("no caller identity; pass --identity or run 'pulse init'")
}
