package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	dryRun     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "WhaleSentinel - unusual options flow alert scanner",
	Long: `WhaleSentinel polls the Unusual Whales options-flow feed, keeps the
alerts that pass the eligibility rules, and simulates (or hands off)
a trade for each one.

Examples:
  sentinel run
  sentinel scan --dry-run=false
  sentinel config --config configs/config.yaml`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigPath(), "config file (env CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", true, "simulate trades instead of placing orders (overrides config)")
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}
