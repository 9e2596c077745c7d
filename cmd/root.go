package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loopso-bridge/config"
	"loopso-bridge/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "loopso-bridge",
	Short: "A CLI for bridging tokens between chains with the Loopso bridge",
	Long: `loopso-bridge is a command-line tool that moves tokens between EVM networks
through the Loopso bridge contracts. Native assets are wrapped automatically,
wrapped tokens are sent back to their origin chain.

Examples:
  loopso-bridge bridge 100 USDC from sepolia to lukso
  loopso-bridge bridge 1.5 LYXt from lukso to sepolia --yes
  loopso-bridge fee 100
  loopso-bridge networks
  loopso-bridge tokens --network lukso
  loopso-bridge status <tx-hash> --network sepolia`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.loopso-bridge.yaml)")
}

// loadConfig reads the configuration named by --config and sets up logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger.Init(level)

	return cfg, nil
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
