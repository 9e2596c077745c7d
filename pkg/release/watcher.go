package release

import (
	"context"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"loopso-bridge/pkg/bridge"
	"loopso-bridge/pkg/logger"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultTimeout      = 30 * time.Minute
)

// LogReader is the chain access the watcher needs
type LogReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]gethtypes.Log, error)
	Close()
}

// Dialer opens a LogReader for an RPC endpoint
type Dialer func(ctx context.Context, rawurl string) (LogReader, error)

// DialEthclient dials an RPC endpoint with go-ethereum's ethclient
func DialEthclient(ctx context.Context, rawurl string) (LogReader, error) {
	return ethclient.DialContext(ctx, rawurl)
}

// Watcher settles when the destination bridge contract emits a release
// event for the recipient. It gives up after Timeout.
type Watcher struct {
	Dial     Dialer
	Interval time.Duration
	Timeout  time.Duration
}

var releaseEvents = []common.Hash{
	bridge.LoopsoABI.Events["TokensReleased"].ID,
	bridge.LoopsoABI.Events["WrappedTokensReleased"].ID,
}

// Await polls the destination chain in the background
func (w *Watcher) Await(ctx context.Context, r Release) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.watch(ctx, r)
	}()
	return done
}

func (w *Watcher) watch(ctx context.Context, r Release) {
	log := logger.GetLogger().With().
		Str("txHash", r.TxHash.Hex()).
		Str("recipient", r.Recipient.Hex()).
		Logger()

	if r.Destination == nil || !common.IsHexAddress(r.Destination.BridgeContract) {
		log.Warn().Msg("No destination bridge contract to watch")
		return
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := w.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	dial := w.Dial
	if dial == nil {
		dial = DialEthclient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reader, err := dial(ctx, r.Destination.RPCUrl)
	if err != nil {
		log.Error().Err(err).Str("network", r.Destination.Key).Msg("Failed to connect to destination chain")
		return
	}
	defer reader.Close()

	head, err := reader.HeaderByNumber(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read destination head")
		return
	}

	query := ethereum.FilterQuery{
		FromBlock: head.Number,
		Addresses: []common.Address{common.HexToAddress(r.Destination.BridgeContract)},
		Topics:    [][]common.Hash{releaseEvents, nil, {common.BytesToHash(r.Recipient.Bytes())}},
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		logs, err := reader.FilterLogs(ctx, query)
		if err != nil {
			log.Debug().Err(err).Msg("Release poll failed")
		} else if len(logs) > 0 {
			log.Info().
				Str("releaseTx", logs[0].TxHash.Hex()).
				Uint64("block", logs[0].BlockNumber).
				Msg("Tokens released on destination chain")
			return
		}

		select {
		case <-ctx.Done():
			log.Warn().Err(ctx.Err()).Msg("Stopped waiting for release")
			return
		case <-ticker.C:
		}
	}
}
