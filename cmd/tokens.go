package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loopso-bridge/pkg/types"
)

var (
	filterNetwork string
	filterSymbol  string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List bridgeable tokens",
	Long: `List the tokens configured for bridging.

You can filter tokens by network or symbol.

Examples:
  loopso-bridge tokens
  loopso-bridge tokens --network lukso
  loopso-bridge tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterNetwork, "network", "", "Filter by network")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filters
	filtered := cfg.Tokens
	if filterNetwork != "" {
		network, err := cfg.NetworkByKey(filterNetwork)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		filtered = cfg.TokensOn(network)
	}

	if filterSymbol != "" {
		var temp []types.Token
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	// Output
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(cfg.Networks, filtered)
	}
}

func displayTokens(networks []types.Network, tokens []types.Token) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            BRIDGEABLE TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	// Display tokens grouped by network, in configuration order
	shown := 0
	for i := range networks {
		network := &networks[i]

		var networkTokens []types.Token
		for _, token := range tokens {
			if token.BelongsTo(network) {
				networkTokens = append(networkTokens, token)
			}
		}
		if len(networkTokens) == 0 {
			continue
		}
		shown++

		color.Cyan("\n%s", strings.ToUpper(network.Key))
		fmt.Println(strings.Repeat("-", 90))

		for _, token := range networkTokens {
			address := token.Address
			if token.IsNative {
				address = "native"
			}

			fmt.Printf("  %-10s  %2d decimals  %s\n",
				color.YellowString(token.Symbol),
				token.Decimals,
				color.HiBlackString(address))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d networks\n\n", len(tokens), shown)
}
