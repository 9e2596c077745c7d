// Package bridge talks to the Loopso bridge contracts. It owns the policy
// decisions callers should not care about: allowance top-ups, whether a token
// is new to the bridge or a wrapped token returning home, and which contract
// serves a chain.
package bridge

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"loopso-bridge/pkg/wallet"
)

// common errors
var (
	ErrNoBridgeForChainID = errors.New("no bridge contract for chain id")
	ErrNoWrappedNative    = errors.New("no wrapped native token for chain id")
	ErrWrapFailed         = errors.New("failed to wrap native token")
	ErrTxReverted         = errors.New("transaction reverted")
	ErrApproveFailed      = errors.New("token approval failed")
	ErrInsufficientFunds  = errors.New("insufficient token balance")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// BridgeRequest carries the parameters of one bridge dispatch
type BridgeRequest struct {
	SourceContract     common.Address
	Signer             wallet.Signer
	Token              common.Address
	Amount             *big.Int
	DestinationAddress common.Address
	DestinationChainID int64
}

// PendingTx is a dispatched transaction awaiting confirmation
type PendingTx interface {
	Hash() common.Hash
	// Wait blocks until the transaction is mined. A reverted transaction is an error.
	Wait(ctx context.Context) (*gethtypes.Receipt, error)
}

// BridgeClient initiates bridge transfers. A nil PendingTx with a nil error
// means the source or destination contract could not be resolved.
type BridgeClient interface {
	InitiateBridge(ctx context.Context, req BridgeRequest) (PendingTx, error)
}

// Wrapper converts a chain's native asset into its bridgeable token
type Wrapper interface {
	WrapNative(ctx context.Context, signer wallet.Signer, chainID int64, amount *big.Int) (PendingTx, error)
}
