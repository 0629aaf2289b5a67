// Config loading for the pulse CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chain-telemetry/pulse/internal/paths"
	"github.com/chain-telemetry/pulse/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyIdentity = "identity"

	defaultBackend = types.BackendSQLite
)

// cliConfig is the resolved CLI configuration.
type cliConfig struct {
	backend  string
	dataDir  string
	identity string
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. A missing config.yaml is not an error; defaults apply.
func loadConfig() (*cliConfig, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, err
	}

	return &cliConfig{
		backend:  v.GetString(cfgKeyBackend),
		dataDir:  dataDir,
		identity: v.GetString(cfgKeyIdentity),
	}, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the pulse config with a generated node identity",
	Long: `Init creates the configuration directory and writes config.yaml
with a freshly generated node identity. An existing config is left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}

		path := filepath.Join(configDir, configFileExt)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "config already exists at %s\n", path)
			return nil
		}

		identity, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate identity: %w", err)
		}

		content := fmt.Sprintf(`# Pulse CLI configuration

# Backend selection: sqlite or memory
backend: %s

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Node identity used as the caller for mutating commands
identity: %s
`, defaultBackend, identity.String())

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "initialized %s with identity %s\n", path, identity.String())
		return nil
	},
}
