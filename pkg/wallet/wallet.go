package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"loopso-bridge/pkg/types"
)

var (
	ErrNoWallet       = errors.New("no wallet connected")
	ErrWalletMismatch = errors.New("signer address does not match connected wallet")
	ErrNoRPC          = errors.New("network has no rpc url")
)

// Backend is the chain access a signer is bound to
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	Close()
}

// Wallet is the connected wallet session
type Wallet struct {
	Label   string
	Address common.Address
}

// Signer authorizes transactions on one network
type Signer interface {
	Address() common.Address
	ChainID() *big.Int
	// TransactOpts returns fresh transaction options bound to ctx
	TransactOpts(ctx context.Context) *bind.TransactOpts
	Backend() Backend
	// Close releases the backend connection
	Close()
}

// Dialer opens a backend for an RPC endpoint
type Dialer func(ctx context.Context, rawurl string) (Backend, error)

// DialEthclient dials an RPC endpoint with go-ethereum's ethclient
func DialEthclient(ctx context.Context, rawurl string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return client, nil
}

// Dial opens a backend for a network, failing when it has no rpc url
func Dial(ctx context.Context, dial Dialer, network *types.Network) (Backend, error) {
	if strings.TrimSpace(network.RPCUrl) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRPC, network.Key)
	}
	return dial(ctx, network.RPCUrl)
}

type boundSigner struct {
	address common.Address
	chainID *big.Int
	backend Backend
	opts    *bind.TransactOpts
}

func (s *boundSigner) Address() common.Address {
	return s.address
}

func (s *boundSigner) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

func (s *boundSigner) TransactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *s.opts
	opts.Context = ctx
	return &opts
}

func (s *boundSigner) Backend() Backend {
	return s.backend
}

func (s *boundSigner) Close() {
	if s.backend != nil {
		s.backend.Close()
	}
}
