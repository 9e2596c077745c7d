package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var networksCmd = &cobra.Command{
	Use:     "networks",
	Aliases: []string{"list-networks"},
	Short:   "List the configured bridge networks",
	Long: `List every network configured in .loopso-bridge.yaml with its chain id and
bridge contract.

Examples:
  loopso-bridge networks
  loopso-bridge networks --json`,
	Run: runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(cfg.Networks, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                                BRIDGE NETWORKS")
	fmt.Println(strings.Repeat("=", 90))

	for _, n := range cfg.Networks {
		bridgeContract := n.BridgeContract
		if bridgeContract == "" {
			bridgeContract = color.RedString("not deployed")
		}

		fmt.Printf("\n  %-12s %s\n", color.CyanString(n.Key), n.Name)
		fmt.Printf("    Chain ID:   %d\n", n.ChainID)
		fmt.Printf("    Contract:   %s\n", color.HiBlackString(bridgeContract))
		if n.NativeSymbol != "" {
			fmt.Printf("    Native:     %s\n", color.YellowString(n.NativeSymbol))
		}
		if n.ExplorerURL != "" {
			fmt.Printf("    Explorer:   %s\n", n.ExplorerURL)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d networks\n\n", len(cfg.Networks))
}
