package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loopso-bridge/pkg/explorer"
	"loopso-bridge/pkg/types"
	"loopso-bridge/pkg/wallet"
)

var (
	statusNetwork string
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a bridge transaction",
	Long: `Check whether a bridge transaction was mined on its source network.

Examples:
  loopso-bridge status 0x1234...abcd --network sepolia
  loopso-bridge status 0x1234...abcd --network sepolia --watch
  loopso-bridge status 0x1234...abcd --network sepolia --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusNetwork, "network", "n", "", "Network the transaction was sent on (required)")
	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch until the transaction is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
	_ = statusCmd.MarkFlagRequired("network")
}

// txStatus is the printable state of a transaction
type txStatus struct {
	Hash        string `json:"hash"`
	Network     string `json:"network"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) {
	hash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(strings.TrimPrefix(hash, "0x")) != 64 {
		printError(fmt.Errorf("invalid transaction hash: %s", hash))
		os.Exit(1)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	network, err := cfg.NetworkByKey(statusNetwork)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := wallet.Dial(ctx, wallet.DialEthclient, network)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	links := explorer.NewResolver(cfg.Networks)

	if watchStatus {
		err = watchTxStatus(ctx, backend, network, links, common.HexToHash(hash), jsonOutput)
	} else {
		err = checkTxStatus(ctx, backend, network, links, common.HexToHash(hash), jsonOutput)
	}
	backend.Close()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func checkTxStatus(ctx context.Context, backend wallet.Backend, network *types.Network, links *explorer.Resolver, hash common.Hash, jsonOutput bool) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction status..."
		s.Start()
	}

	status, err := lookupTx(ctx, backend, network, links, hash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		return err
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}
	return nil
}

func watchTxStatus(ctx context.Context, backend wallet.Backend, network *types.Network, links *explorer.Resolver, hash common.Hash, jsonOutput bool) error {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		return fmt.Errorf("watch mode not supported with JSON output")
	}

	fmt.Printf("\nWatching transaction %s on %s\n", color.CyanString(hash.Hex()), network.Key)
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	if checkAndDisplayStatus(ctx, backend, network, links, hash) {
		return nil
	}

	// Then check periodically until the transaction is mined
	for range ticker.C {
		if checkAndDisplayStatus(ctx, backend, network, links, hash) {
			break
		}
	}
	return nil
}

func checkAndDisplayStatus(ctx context.Context, backend wallet.Backend, network *types.Network, links *explorer.Resolver, hash common.Hash) bool {
	status, err := lookupTx(ctx, backend, network, links, hash)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status)
	return status.Status != "PENDING"
}

func lookupTx(ctx context.Context, backend wallet.Backend, network *types.Network, links *explorer.Resolver, hash common.Hash) (*txStatus, error) {
	status := &txStatus{
		Hash:        hash.Hex(),
		Network:     network.Key,
		ExplorerURL: links.TransactionURL(network.ChainID, hash.Hex()),
	}

	receipt, err := backend.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		status.Status = "PENDING"
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	status.Status = "SUCCESS"
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		status.Status = "FAILED"
	}
	if receipt.BlockNumber != nil {
		status.BlockNumber = receipt.BlockNumber.Uint64()
	}
	status.GasUsed = receipt.GasUsed
	return status, nil
}

func displayStatus(status *txStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Tx Hash:         %s\n", color.CyanString(status.Hash))
	fmt.Printf("  Network:         %s\n", status.Network)
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))

	if status.BlockNumber > 0 {
		fmt.Printf("  Block:           %d\n", status.BlockNumber)
		fmt.Printf("  Gas Used:        %d\n", status.GasUsed)
	}
	if status.ExplorerURL != "" {
		fmt.Printf("  Explorer:        %s\n", color.HiBlackString(status.ExplorerURL))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch status {
	case "SUCCESS":
		return color.GreenString(status)
	case "PENDING":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return status
	}
}
