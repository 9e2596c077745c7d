package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loopso-bridge/config"
	"loopso-bridge/pkg/bridge"
	"loopso-bridge/pkg/explorer"
	"loopso-bridge/pkg/fees"
	"loopso-bridge/pkg/notify"
	"loopso-bridge/pkg/parser"
	"loopso-bridge/pkg/release"
	"loopso-bridge/pkg/selection"
	"loopso-bridge/pkg/types"
	"loopso-bridge/pkg/wallet"
	"loopso-bridge/pkg/workflow"
)

var noConfirm bool

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <token> from <network> to <network>",
	Short: "Bridge tokens to another network",
	Long: `Bridge tokens from one network to another through the Loopso bridge.

The connected wallet is configured under "wallet" in .loopso-bridge.yaml. The
"Universal Profiles" wallet signs through the injected provider endpoint,
any other wallet signs with LOOPSO_BRIDGE_WALLET_PRIVATE_KEY.

Examples:
  # Bridge an ERC20 token
  loopso-bridge bridge 100 USDC from sepolia to lukso

  # Bridge the native asset, it is wrapped before dispatch
  loopso-bridge bridge 1.5 LYXt from lukso to sepolia

  # Skip the confirmation prompt
  loopso-bridge bridge 100 USDC from sepolia to lukso --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runBridge(cmd *cobra.Command, args []string) {
	// Parse the command
	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := req.Validate(); err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	sel, err := buildSelection(cfg, req)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !sel.CanSubmit() {
		printError(fmt.Errorf("select a source network, a token and a destination network"))
		os.Exit(1)
	}

	intent := sel.Intent()
	quote := sel.Quote()
	if quote == nil {
		printError(fmt.Errorf("invalid amount: %s", req.Amount))
		os.Exit(1)
	}

	if !jsonOutput {
		displayBridgeQuote(intent, quote)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		if !confirmBridge() {
			fmt.Println("\nBridge cancelled.")
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var consoleOut io.Writer = os.Stdout
	if jsonOutput {
		consoleOut = os.Stderr
	}
	console := notify.NewConsoleWriter(consoleOut, !jsonOutput)
	sinks := notify.Multi{console}
	if cfg.Kafka.Enabled {
		kafkaSink := notify.NewKafka(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	sub := newSubmitter(cfg, sinks)
	outcome, err := sub.Submit(ctx, sessionWallet(cfg), intent)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if outcome == nil {
		printError(fmt.Errorf("nothing to submit, check the wallet and the selected networks"))
		os.Exit(1)
	}

	// Keep the process alive until the pending notification is settled
	sub.Wait()
	console.Wait()

	if jsonOutput {
		output := map[string]interface{}{
			"source":      intent.Source.Key,
			"destination": intent.Destination.Key,
			"token":       intent.Token.Symbol,
			"amount":      intent.Amount,
			"fee":         quote.FeeString(),
			"receive":     quote.ReceiveString(),
			"tx_hash":     sub.LastHash(),
			"status":      "submitted",
		}
		if !outcome.Succeeded() {
			output["status"] = "failed"
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	}

	if !outcome.Succeeded() {
		os.Exit(1)
	}

	if !jsonOutput {
		fmt.Println("\nYou can check the transaction using:")
		color.Cyan("  loopso-bridge status %s --network %s\n", outcome.TxHash, intent.Source.Key)
	}
}

// buildSelection resolves the parsed command against the configured catalogs
func buildSelection(cfg *config.Config, req *parser.BridgeCommand) (*selection.Selection, error) {
	source, err := cfg.NetworkByKey(req.From)
	if err != nil {
		return nil, err
	}
	destination, err := cfg.NetworkByKey(req.To)
	if err != nil {
		return nil, err
	}
	token, err := cfg.FindToken(req.Token, source)
	if err != nil {
		return nil, err
	}

	sel := selection.New(func(message string) {
		color.Yellow("\n%s", message)
	})
	sel.SetSource(source)
	sel.SetDestination(destination)
	sel.SetToken(token)
	sel.SetAmount(req.Amount)
	return sel, nil
}

func newSubmitter(cfg *config.Config, sink notify.Sink) *workflow.Submitter {
	resolver := wallet.NewResolver(wallet.DialEthclient, &wallet.KeyedStrategy{PrivateKey: cfg.Wallet.PrivateKey})
	resolver.Register(config.DesignatedWalletLabel, &wallet.InjectedStrategy{Endpoint: cfg.Wallet.InjectedEndpoint})

	var followUp release.FollowUp = &release.Timed{Delay: cfg.Notifications.FollowUpDelay}
	if cfg.Notifications.WatchReleases {
		followUp = &release.Watcher{
			Dial:     release.DialEthclient,
			Interval: cfg.Notifications.PollInterval,
			Timeout:  cfg.Notifications.ReleaseTimeout,
		}
	}

	loopso := bridge.NewLoopso(cfg.Networks)
	return workflow.New(workflow.Deps{
		Signers:   resolver,
		Bridge:    loopso,
		Wrapper:   loopso,
		Contracts: loopso,
		Sink:      sink,
		Explorer:  explorer.NewResolver(cfg.Networks),
		FollowUp:  followUp,
		Duration:  cfg.Notifications.Duration,
	})
}

func sessionWallet(cfg *config.Config) *wallet.Wallet {
	w := &wallet.Wallet{Label: cfg.Wallet.Label}
	if common.IsHexAddress(cfg.Wallet.Address) {
		w.Address = common.HexToAddress(cfg.Wallet.Address)
	}
	return w
}

func displayBridgeQuote(intent types.SubmissionIntent, quote *fees.Quote) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                    BRIDGE SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s\n", networkLabel(intent.Source))
	fmt.Printf("  To:                %s\n", networkLabel(intent.Destination))
	fmt.Printf("  Amount:            %s %s\n", intent.Amount, color.YellowString(intent.Token.Symbol))
	fmt.Printf("  Fee:               %s %s\n", quote.FeeString(), intent.Token.Symbol)
	fmt.Printf("  You will receive:  ~%s %s\n", quote.ReceiveString(), intent.Token.Symbol)
	if intent.Token.IsNative {
		fmt.Printf("  Note:              %s\n", color.HiBlackString("native asset is wrapped before bridging"))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func networkLabel(n *types.Network) string {
	if n.Name == "" {
		return n.Key
	}
	return fmt.Sprintf("%s (%d)", n.Name, n.ChainID)
}

func confirmBridge() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with bridge? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
