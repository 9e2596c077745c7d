package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"loopso-bridge/pkg/types"
)

// Strategy derives a signer for a wallet on a network
type Strategy interface {
	Signer(ctx context.Context, w *Wallet, network *types.Network, backend Backend) (Signer, error)
}

// StrategyFunc adapts a function to Strategy
type StrategyFunc func(ctx context.Context, w *Wallet, network *types.Network, backend Backend) (Signer, error)

// Signer calls f
func (f StrategyFunc) Signer(ctx context.Context, w *Wallet, network *types.Network, backend Backend) (Signer, error) {
	return f(ctx, w, network, backend)
}

// KeyedStrategy signs with a locally held private key. It stands in for the
// generic wallet provider.
type KeyedStrategy struct {
	PrivateKey string
}

// Signer builds a keyed transactor for the network's chain id
func (k *KeyedStrategy) Signer(_ context.Context, w *Wallet, network *types.Network, backend Backend) (Signer, error) {
	if k.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured. Set LOOPSO_BRIDGE_WALLET_PRIVATE_KEY")
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(k.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key")
	}
	address := crypto.PubkeyToAddress(*publicKey)
	if err := checkAddress(w, address); err != nil {
		return nil, err
	}

	chainID := big.NewInt(network.ChainID)
	opts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	return &boundSigner{address: address, chainID: chainID, backend: backend, opts: opts}, nil
}

// InjectedStrategy signs through an external signer endpoint that the host
// platform injects, such as a browser extension bridged over the clef API
type InjectedStrategy struct {
	Endpoint string
}

// Signer connects to the endpoint and selects the wallet's account
func (i *InjectedStrategy) Signer(_ context.Context, w *Wallet, network *types.Network, backend Backend) (Signer, error) {
	if i.Endpoint == "" {
		return nil, fmt.Errorf("injected provider endpoint not configured. Set LOOPSO_BRIDGE_WALLET_INJECTED_ENDPOINT")
	}

	ext, err := external.NewExternalSigner(i.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to injected provider: %w", err)
	}

	account, err := selectAccount(ext.Accounts(), w.Address)
	if err != nil {
		return nil, err
	}

	return &boundSigner{
		address: account.Address,
		chainID: big.NewInt(network.ChainID),
		backend: backend,
		opts:    bind.NewClefTransactor(ext, account),
	}, nil
}

func selectAccount(available []accounts.Account, want common.Address) (accounts.Account, error) {
	if len(available) == 0 {
		return accounts.Account{}, fmt.Errorf("injected provider exposes no accounts")
	}
	if want == (common.Address{}) {
		return available[0], nil
	}
	for _, a := range available {
		if a.Address == want {
			return a, nil
		}
	}
	return accounts.Account{}, fmt.Errorf("%w: %s", ErrWalletMismatch, want.Hex())
}

func checkAddress(w *Wallet, address common.Address) error {
	if w.Address != (common.Address{}) && w.Address != address {
		return fmt.Errorf("%w: wallet %s, key %s", ErrWalletMismatch, w.Address.Hex(), address.Hex())
	}
	return nil
}
