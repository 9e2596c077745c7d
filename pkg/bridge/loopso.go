package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"loopso-bridge/pkg/logger"
	"loopso-bridge/pkg/types"
	"loopso-bridge/pkg/wallet"
)

// WrappedTokenInfo describes a token the bridge minted as a wrapped
// representation. Name is empty for tokens that are not wrapped.
type WrappedTokenInfo struct {
	SrcChain     *big.Int
	TokenAddress common.Address
	Decimals     uint8
	Name         string
	Symbol       string
}

// IsWrapped returns true when the token is a bridge-minted wrapped token
func (w *WrappedTokenInfo) IsWrapped() bool {
	return w.Name != ""
}

// Loopso is the bridge client for Loopso contracts
type Loopso struct {
	networks map[int64]types.Network
}

var (
	_ BridgeClient = (*Loopso)(nil)
	_ Wrapper      = (*Loopso)(nil)
)

// NewLoopso creates a client that resolves contracts from the given networks
func NewLoopso(networks []types.Network) *Loopso {
	l := &Loopso{networks: make(map[int64]types.Network, len(networks))}
	for _, n := range networks {
		l.networks[n.ChainID] = n
	}
	return l
}

// ContractAddress returns the Loopso contract deployed on chainID
func (l *Loopso) ContractAddress(chainID int64) (common.Address, bool) {
	n, ok := l.networks[chainID]
	if !ok || !common.IsHexAddress(n.BridgeContract) {
		return common.Address{}, false
	}
	addr := n.BridgeAddress()
	return addr, addr != (common.Address{})
}

// WrappedTokenInfo looks up whether token is a wrapped token on the source contract
func (l *Loopso) WrappedTokenInfo(ctx context.Context, contract common.Address, signer wallet.Signer, token common.Address) (*WrappedTokenInfo, error) {
	bound := l.bind(contract, signer)

	var out []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx, From: signer.Address()}, &out, "getWrappedTokenInfo", token); err != nil {
		return nil, fmt.Errorf("failed to get wrapped token info: %w", err)
	}
	if len(out) != 5 {
		return nil, fmt.Errorf("unexpected wrapped token info length %d", len(out))
	}

	return &WrappedTokenInfo{
		SrcChain:     *abiConvert[*big.Int](out, 0),
		TokenAddress: *abiConvert[common.Address](out, 1),
		Decimals:     *abiConvert[uint8](out, 2),
		Name:         *abiConvert[string](out, 3),
		Symbol:       *abiConvert[string](out, 4),
	}, nil
}

// InitiateBridge resolves both contracts, checks the balance and tops up the
// allowance. Wrapped tokens returning to their origin go through
// bridgeTokensBack, all other tokens through bridgeTokens.
func (l *Loopso) InitiateBridge(ctx context.Context, req BridgeRequest) (PendingTx, error) {
	log := logger.GetLogger()

	if req.Signer == nil {
		return nil, wallet.ErrNoWallet
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, ok := l.ContractAddress(req.DestinationChainID); !ok || req.SourceContract == (common.Address{}) {
		log.Warn().
			Str("source", req.SourceContract.Hex()).
			Int64("dstChain", req.DestinationChainID).
			Msg("Bridge contract could not be resolved")
		return nil, nil
	}

	token := NewERC20(req.Token, req.Signer)
	balance, err := token.BalanceOf(ctx, req.Signer.Address())
	if err != nil {
		return nil, err
	}
	if balance.Cmp(req.Amount) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, balance, req.Amount)
	}
	if err := token.EnsureAllowance(ctx, req.SourceContract, req.Amount); err != nil {
		return nil, err
	}

	info, err := l.WrappedTokenInfo(ctx, req.SourceContract, req.Signer, req.Token)
	if err != nil {
		return nil, err
	}

	bound := l.bind(req.SourceContract, req.Signer)
	opts := req.Signer.TransactOpts(ctx)

	if info.IsWrapped() {
		attestationID := AttestationID(info.TokenAddress, info.SrcChain)
		log.Debug().
			Str("token", req.Token.Hex()).
			Str("attestationId", attestationID.Hex()).
			Msg("Bridging wrapped token back to origin")

		tx, err := bound.Transact(opts, "bridgeTokensBack", req.Amount, req.DestinationAddress, [32]byte(attestationID))
		if err != nil {
			return nil, fmt.Errorf("failed to send bridgeTokensBack: %w", err)
		}
		return newPendingTx(tx, req.Signer.Backend()), nil
	}

	log.Debug().
		Str("token", req.Token.Hex()).
		Int64("dstChain", req.DestinationChainID).
		Msg("Bridging token")

	tx, err := bound.Transact(opts, "bridgeTokens", req.Token, req.Amount, big.NewInt(req.DestinationChainID), req.DestinationAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to send bridgeTokens: %w", err)
	}
	return newPendingTx(tx, req.Signer.Backend()), nil
}

// WrapNative deposits amount of the native asset into the chain's wrapped token contract
func (l *Loopso) WrapNative(ctx context.Context, signer wallet.Signer, chainID int64, amount *big.Int) (PendingTx, error) {
	n, ok := l.networks[chainID]
	if !ok || !common.IsHexAddress(n.WrappedNative) {
		return nil, fmt.Errorf("%w: %d", ErrNoWrappedNative, chainID)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	backend := signer.Backend()
	contract := bind.NewBoundContract(common.HexToAddress(n.WrappedNative), wrappedNativeABI, backend, backend, backend)

	opts := signer.TransactOpts(ctx)
	opts.Value = new(big.Int).Set(amount)

	tx, err := contract.Transact(opts, "deposit")
	if err != nil {
		return nil, fmt.Errorf("failed to wrap native token: %w", err)
	}
	return newPendingTx(tx, backend), nil
}

// WrappedNativeAddress returns the wrapped native token bridged in place of
// the native asset on chainID
func (l *Loopso) WrappedNativeAddress(chainID int64) (common.Address, bool) {
	n, ok := l.networks[chainID]
	if !ok || !common.IsHexAddress(n.WrappedNative) {
		return common.Address{}, false
	}
	return common.HexToAddress(n.WrappedNative), true
}

func (l *Loopso) bind(contract common.Address, signer wallet.Signer) *bind.BoundContract {
	backend := signer.Backend()
	return bind.NewBoundContract(contract, LoopsoABI, backend, backend, backend)
}

func abiConvert[T any](out []interface{}, i int) *T {
	return abi.ConvertType(out[i], new(T)).(*T)
}
