// Package cli implements the payshare command line: serve runs the API
// server, settle runs the balance engine over a local file.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/payshare/backend/internal/config"
)

type rootFlags struct {
	configFile string
	envFile    string
}

// NewRootCmd builds the payshare command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "payshare",
		Short: "Shared expense ledger with balances, fairness scores and settlement plans",
		Long: `payshare tracks shared expenses for groups of people.

It reports how much each participant is owed or owes, scores how evenly the
costs are spread, and plans the fewest transfers that settle everyone up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: ./payshare.yaml or $HOME/.payshare/payshare.yaml)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded into the environment if present")
	cmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	cmd.AddCommand(newServeCmd(flags), newSettleCmd(flags))
	return cmd
}

// loadConfig reads configuration with cmd's explicitly set flags on top.
func loadConfig(cmd *cobra.Command, flags *rootFlags, bindings map[string]string) (*config.Config, error) {
	all := map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, name := range bindings {
		all[key] = name
	}

	bound := make(map[string]*pflag.Flag, len(all))
	for key, name := range all {
		bound[key] = cmd.Flags().Lookup(name)
	}

	return config.Load(config.Options{
		ConfigFile: flags.configFile,
		EnvFile:    flags.envFile,
		Flags:      bound,
	})
}
