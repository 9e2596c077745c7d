// Package workflow runs one bridge submission end to end: signer
// acquisition, the optional native wrap, dispatch, confirmation and the
// notifications that report the outcome.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"loopso-bridge/pkg/bridge"
	"loopso-bridge/pkg/logger"
	"loopso-bridge/pkg/notify"
	"loopso-bridge/pkg/release"
	"loopso-bridge/pkg/types"
	"loopso-bridge/pkg/wallet"
)

// ErrSubmissionInProgress is returned when Submit is called while another
// submission is still running
var ErrSubmissionInProgress = errors.New("a bridge submission is already in progress")

// User-facing notification texts
const (
	PendingContent = "Transaction in progress..."
	CreatedTitle   = "Transaction Created"
	FailedContent  = "Something went wrong. Please try again."
)

// SignerResolver returns a signer for a wallet on a network
type SignerResolver interface {
	ResolveSigner(ctx context.Context, w *wallet.Wallet, network *types.Network) (wallet.Signer, error)
}

// Contracts resolves the per-chain addresses a submission needs
type Contracts interface {
	ContractAddress(chainID int64) (common.Address, bool)
	WrappedNativeAddress(chainID int64) (common.Address, bool)
}

// Explorer builds transaction links
type Explorer interface {
	TransactionURL(chainID int64, txHash string) string
}

// Deps are the collaborators of a Submitter
type Deps struct {
	Signers   SignerResolver
	Bridge    bridge.BridgeClient
	Wrapper   bridge.Wrapper
	Contracts Contracts
	Sink      notify.Sink
	Explorer  Explorer
	FollowUp  release.FollowUp
	// Duration is how long notifications stay visible. Zero uses notify.DefaultDuration.
	Duration time.Duration
	Logger   *zerolog.Logger
}

// Submitter executes bridge submissions one at a time
type Submitter struct {
	deps Deps
	log  zerolog.Logger

	mu       sync.Mutex
	inFlight bool
	lastHash string

	followUps sync.WaitGroup
}

// New creates a submitter
func New(deps Deps) *Submitter {
	if deps.Duration <= 0 {
		deps.Duration = notify.DefaultDuration
	}
	if deps.FollowUp == nil {
		deps.FollowUp = &release.Timed{}
	}

	log := *logger.GetLogger()
	if deps.Logger != nil {
		log = *deps.Logger
	}

	return &Submitter{deps: deps, log: log}
}

// LastHash returns the hash recorded by the last submission, types.NoTxHash
// after a failure, or "" before any submission ran
func (s *Submitter) LastHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHash
}

// InFlight reports whether a submission is running
func (s *Submitter) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Wait blocks until every follow-up started by a successful submission has settled
func (s *Submitter) Wait() {
	s.followUps.Wait()
}

// Submit bridges intent.Amount of intent.Token from the source network to the
// destination network. An incomplete intent or missing wallet is a silent
// no-op returning a nil outcome. Every other failure is reported through the
// sink and returned in the outcome; the error return is reserved for
// ErrSubmissionInProgress.
func (s *Submitter) Submit(ctx context.Context, w *wallet.Wallet, intent types.SubmissionIntent) (*types.Outcome, error) {
	if !s.begin() {
		return nil, ErrSubmissionInProgress
	}
	defer s.end()

	if w == nil || !intent.Complete() {
		return nil, nil
	}

	log := s.log.With().
		Str("token", intent.Token.Symbol).
		Str("from", intent.Source.Key).
		Str("to", intent.Destination.Key).
		Str("amount", intent.Amount).
		Logger()

	hash, recipient, err := s.execute(ctx, log, w, intent)
	if err != nil {
		log.Error().Err(err).Msg("Bridge submission failed")
		s.setLastHash(types.NoTxHash)
		s.notify(notify.New(notify.KindError, "", FailedContent))
		return &types.Outcome{Err: err}, nil
	}

	txHash := hash.Hex()
	log.Info().Str("txHash", txHash).Msg("Bridge transaction confirmed")
	s.setLastHash(txHash)

	done := s.deps.FollowUp.Await(ctx, release.Release{
		Destination: intent.Destination,
		Recipient:   recipient,
		TxHash:      hash,
	})
	s.followUps.Add(1)
	go func() {
		defer s.followUps.Done()
		<-done
	}()

	pending := notify.New(notify.KindPending, "", PendingContent)
	pending.Done = done
	s.notify(pending)

	created := notify.New(notify.KindInfo, CreatedTitle, txHash)
	if s.deps.Explorer != nil {
		created.ActionURL = s.deps.Explorer.TransactionURL(intent.Source.ChainID, txHash)
	}
	s.notify(created)

	return &types.Outcome{TxHash: txHash}, nil
}

func (s *Submitter) execute(ctx context.Context, log zerolog.Logger, w *wallet.Wallet, intent types.SubmissionIntent) (common.Hash, common.Address, error) {
	signer, err := s.deps.Signers.ResolveSigner(ctx, w, intent.Source)
	if err != nil {
		return common.Hash{}, common.Address{}, fmt.Errorf("failed to resolve signer: %w", err)
	}
	defer signer.Close()
	log.Debug().Str("signer", signer.Address().Hex()).Str("wallet", w.Label).Msg("Signer resolved")

	amount, err := bridge.ToBaseUnits(intent.Amount, intent.Token.Decimals)
	if err != nil {
		return common.Hash{}, common.Address{}, err
	}

	token := common.HexToAddress(intent.Token.Address)
	if intent.Token.IsNative {
		if token, err = s.wrap(ctx, log, signer, intent, amount); err != nil {
			return common.Hash{}, common.Address{}, err
		}
	}

	// A missing source contract is left zero so the bridge client reports it
	sourceContract, _ := s.deps.Contracts.ContractAddress(intent.Source.ChainID)
	recipient := signer.Address()

	pending, err := s.deps.Bridge.InitiateBridge(ctx, bridge.BridgeRequest{
		SourceContract:     sourceContract,
		Signer:             signer,
		Token:              token,
		Amount:             amount,
		DestinationAddress: recipient,
		DestinationChainID: intent.Destination.ChainID,
	})
	if err != nil {
		return common.Hash{}, common.Address{}, fmt.Errorf("failed to initiate bridge: %w", err)
	}
	if pending == nil {
		return common.Hash{}, common.Address{}, fmt.Errorf("%w: %d to %d", bridge.ErrNoBridgeForChainID, intent.Source.ChainID, intent.Destination.ChainID)
	}
	log.Info().Str("txHash", pending.Hash().Hex()).Msg("Bridge transaction sent, waiting for confirmation")

	receipt, err := pending.Wait(ctx)
	if err != nil {
		return common.Hash{}, common.Address{}, err
	}

	hash := receipt.TxHash
	if hash == (common.Hash{}) {
		hash = pending.Hash()
	}
	return hash, recipient, nil
}

func (s *Submitter) wrap(ctx context.Context, log zerolog.Logger, signer wallet.Signer, intent types.SubmissionIntent, amount *big.Int) (common.Address, error) {
	wrapped, ok := s.deps.Contracts.WrappedNativeAddress(intent.Source.ChainID)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %d", bridge.ErrNoWrappedNative, intent.Source.ChainID)
	}
	if s.deps.Wrapper == nil {
		return common.Address{}, bridge.ErrWrapFailed
	}

	pending, err := s.deps.Wrapper.WrapNative(ctx, signer, intent.Source.ChainID, amount)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", bridge.ErrWrapFailed, err)
	}
	if pending == nil {
		return common.Address{}, bridge.ErrWrapFailed
	}
	log.Debug().Str("txHash", pending.Hash().Hex()).Str("amount", amount.String()).Msg("Wrapping native token")

	if _, err := pending.Wait(ctx); err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", bridge.ErrWrapFailed, err)
	}
	return wrapped, nil
}

func (s *Submitter) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Submitter) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *Submitter) setLastHash(hash string) {
	s.mu.Lock()
	s.lastHash = hash
	s.mu.Unlock()
}

func (s *Submitter) notify(n notify.Notification) {
	if s.deps.Sink == nil {
		return
	}
	n.Duration = s.deps.Duration
	s.deps.Sink.Notify(n)
}
