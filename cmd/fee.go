package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loopso-bridge/pkg/fees"
)

var feeCmd = &cobra.Command{
	Use:   "fee <amount>",
	Short: "Show the bridge fee for an amount",
	Long: `Show the bridge fee and the estimated amount received for an amount.

The fee is 0.5% of the amount. Both values are rounded to 2 decimals.

Examples:
  loopso-bridge fee 100
  loopso-bridge fee 12.75 --json`,
	Args: cobra.ExactArgs(1),
	Run:  runFee,
}

func init() {
	rootCmd.AddCommand(feeCmd)
}

func runFee(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	quote, err := fees.ForAmount(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"amount":  quote.Amount.String(),
			"fee":     quote.FeeString(),
			"receive": quote.ReceiveString(),
			"rate":    fees.Rate.String(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 40))
	color.Green("              BRIDGE FEE")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("\n  Amount:      %s\n", quote.Amount.String())
	fmt.Printf("  Fee (0.5%%):  %s\n", color.YellowString(quote.FeeString()))
	fmt.Printf("  Receive:     ~%s\n", color.CyanString(quote.ReceiveString()))
	fmt.Println("\n" + strings.Repeat("=", 40) + "\n")
}
