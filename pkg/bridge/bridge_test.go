package bridge

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loopso-bridge/pkg/types"
	"loopso-bridge/pkg/wallet"
)

const devKey = "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

var (
	luksoBridge   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	sepoliaBridge = common.HexToAddress("0x2000000000000000000000000000000000000002")
	wrappedLYX    = common.HexToAddress("0x3000000000000000000000000000000000000003")
	usdc          = common.HexToAddress("0x4000000000000000000000000000000000000004")
	recipient     = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")

	testNetworks = []types.Network{
		{Key: "lukso", ChainID: 4201, BridgeContract: luksoBridge.Hex(), WrappedNative: wrappedLYX.Hex()},
		{Key: "sepolia", ChainID: 11155111, BridgeContract: sepoliaBridge.Hex()},
	}
)

func newSigner(t *testing.T, backend *fakeBackend, chainID int64) wallet.Signer {
	t.Helper()
	s := &wallet.KeyedStrategy{PrivateKey: devKey}
	signer, err := s.Signer(context.Background(), &wallet.Wallet{Label: "Private Key"}, &types.Network{ChainID: chainID}, backend)
	require.NoError(t, err)
	return signer
}

func request(signer wallet.Signer, amount int64) BridgeRequest {
	return BridgeRequest{
		SourceContract:     luksoBridge,
		Signer:             signer,
		Token:              usdc,
		Amount:             big.NewInt(amount),
		DestinationAddress: recipient,
		DestinationChainID: 11155111,
	}
}

func TestContractAddress(t *testing.T) {
	l := NewLoopso(append(testNetworks, types.Network{Key: "empty", ChainID: 1}))

	addr, ok := l.ContractAddress(4201)
	assert.True(t, ok)
	assert.Equal(t, luksoBridge, addr)

	_, ok = l.ContractAddress(1)
	assert.False(t, ok)

	_, ok = l.ContractAddress(999)
	assert.False(t, ok)
}

func TestInitiateBridgeNewToken(t *testing.T) {
	backend := newFakeBackend()
	backend.allowance = big.NewInt(1_000_000)
	signer := newSigner(t, backend, 4201)

	pending, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 500))
	require.NoError(t, err)
	require.NotNil(t, pending)

	sent := backend.transactions()
	require.Len(t, sent, 1)
	assert.Equal(t, sent[0].Hash(), pending.Hash())

	call, err := decode(sent[0])
	require.NoError(t, err)
	assert.Equal(t, "bridgeTokens", call.Method)
	assert.Equal(t, luksoBridge, call.To)
	assert.Equal(t, usdc, call.Args[0])
	assert.Equal(t, 0, big.NewInt(500).Cmp(call.Args[1].(*big.Int)))
	assert.Equal(t, int64(11155111), call.Args[2].(*big.Int).Int64())
	assert.Equal(t, recipient, call.Args[3])

	receipt, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pending.Hash(), receipt.TxHash)
}

func TestInitiateBridgeApprovesShortAllowance(t *testing.T) {
	backend := newFakeBackend()
	signer := newSigner(t, backend, 4201)

	_, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 500))
	require.NoError(t, err)

	sent := backend.transactions()
	require.Len(t, sent, 2)

	approve, err := decode(sent[0])
	require.NoError(t, err)
	assert.Equal(t, "approve", approve.Method)
	assert.Equal(t, usdc, approve.To)
	assert.Equal(t, luksoBridge, approve.Args[0])
	assert.Equal(t, int64(500), approve.Args[1].(*big.Int).Int64())

	bridgeCall, err := decode(sent[1])
	require.NoError(t, err)
	assert.Equal(t, "bridgeTokens", bridgeCall.Method)
}

func TestInitiateBridgeApproveReverted(t *testing.T) {
	backend := newFakeBackend()
	backend.revert = true
	signer := newSigner(t, backend, 4201)

	pending, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 500))
	assert.Nil(t, pending)
	assert.True(t, errors.Is(err, ErrApproveFailed))
	assert.Len(t, backend.transactions(), 1)
}

func TestInitiateBridgeInsufficientBalance(t *testing.T) {
	backend := newFakeBackend()
	backend.balance = big.NewInt(10)
	signer := newSigner(t, backend, 4201)

	pending, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 500))
	assert.Nil(t, pending)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Empty(t, backend.transactions())
}

func TestInitiateBridgeWrappedToken(t *testing.T) {
	origin := common.HexToAddress("0x5000000000000000000000000000000000000005")

	backend := newFakeBackend()
	backend.allowance = big.NewInt(1_000_000)
	backend.wrapped = WrappedTokenInfo{
		SrcChain:     big.NewInt(11155111),
		TokenAddress: origin,
		Decimals:     6,
		Name:         "Wrapped USDC",
		Symbol:       "wUSDC",
	}
	signer := newSigner(t, backend, 4201)

	_, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 42))
	require.NoError(t, err)

	sent := backend.transactions()
	require.Len(t, sent, 1)

	call, err := decode(sent[0])
	require.NoError(t, err)
	assert.Equal(t, "bridgeTokensBack", call.Method)
	assert.Equal(t, int64(42), call.Args[0].(*big.Int).Int64())
	assert.Equal(t, recipient, call.Args[1])
	assert.Equal(t, [32]byte(AttestationID(origin, big.NewInt(11155111))), call.Args[2])
}

func TestInitiateBridgeUnresolved(t *testing.T) {
	backend := newFakeBackend()
	backend.allowance = big.NewInt(1_000_000)
	signer := newSigner(t, backend, 4201)
	l := NewLoopso(testNetworks)

	req := request(signer, 1)
	req.DestinationChainID = 999
	pending, err := l.InitiateBridge(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, pending)

	req = request(signer, 1)
	req.SourceContract = common.Address{}
	pending, err = l.InitiateBridge(context.Background(), req)
	assert.NoError(t, err)
	assert.Nil(t, pending)

	assert.Empty(t, backend.transactions())
}

func TestInitiateBridgeBackendErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.callErr = errors.New("rpc unavailable")
	signer := newSigner(t, backend, 4201)

	_, err := NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 1))
	assert.ErrorContains(t, err, "rpc unavailable")

	backend = newFakeBackend()
	backend.allowance = big.NewInt(1_000_000)
	backend.sendErr = errors.New("nonce too low")
	signer = newSigner(t, backend, 4201)

	_, err = NewLoopso(testNetworks).InitiateBridge(context.Background(), request(signer, 1))
	assert.ErrorContains(t, err, "failed to send bridgeTokens")
	assert.Empty(t, backend.transactions())
}

func TestInitiateBridgeInvalidRequest(t *testing.T) {
	backend := newFakeBackend()
	signer := newSigner(t, backend, 4201)
	l := NewLoopso(testNetworks)

	_, err := l.InitiateBridge(context.Background(), request(signer, 0))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	req := request(signer, 1)
	req.Signer = nil
	_, err = l.InitiateBridge(context.Background(), req)
	assert.True(t, errors.Is(err, wallet.ErrNoWallet))
}

func TestWrapNative(t *testing.T) {
	backend := newFakeBackend()
	signer := newSigner(t, backend, 4201)
	l := NewLoopso(testNetworks)

	amount := big.NewInt(2_500_000_000_000_000_000)
	pending, err := l.WrapNative(context.Background(), signer, 4201, amount)
	require.NoError(t, err)

	sent := backend.transactions()
	require.Len(t, sent, 1)
	assert.Equal(t, sent[0].Hash(), pending.Hash())

	call, err := decode(sent[0])
	require.NoError(t, err)
	assert.Equal(t, "deposit", call.Method)
	assert.Equal(t, wrappedLYX, call.To)
	assert.Equal(t, 0, amount.Cmp(call.Value))

	addr, ok := l.WrappedNativeAddress(4201)
	assert.True(t, ok)
	assert.Equal(t, wrappedLYX, addr)
}

func TestWrapNativeErrors(t *testing.T) {
	backend := newFakeBackend()
	signer := newSigner(t, backend, 11155111)
	l := NewLoopso(testNetworks)

	_, err := l.WrapNative(context.Background(), signer, 11155111, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrNoWrappedNative))

	_, err = l.WrapNative(context.Background(), signer, 4201, big.NewInt(0))
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestPendingTxReverted(t *testing.T) {
	backend := newFakeBackend()
	signer := newSigner(t, backend, 4201)

	pending, err := NewLoopso(testNetworks).WrapNative(context.Background(), signer, 4201, big.NewInt(1))
	require.NoError(t, err)

	backend.revert = true
	receipt, err := pending.Wait(context.Background())
	assert.True(t, errors.Is(err, ErrTxReverted))
	require.NotNil(t, receipt)
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "whole", amount: "1", decimals: 18, want: "1000000000000000000"},
		{name: "fraction", amount: "1.5", decimals: 6, want: "1500000"},
		{name: "zero decimals", amount: "5", decimals: 0, want: "5"},
		{name: "trailing zeros", amount: "1.500000000", decimals: 6, want: "1500000"},
		{name: "finer than precision", amount: "1.0000009", decimals: 6, wantErr: true},
		{name: "fraction of indivisible token", amount: "0.5", decimals: 0, wantErr: true},
		{name: "negative decimals", amount: "1", decimals: -1, wantErr: true},
		{name: "zero", amount: "0", decimals: 18, wantErr: true},
		{name: "negative", amount: "-1", decimals: 18, wantErr: true},
		{name: "below precision", amount: "0.0000001", decimals: 6, wantErr: true},
		{name: "garbage", amount: "abc", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAttestationID(t *testing.T) {
	token := common.HexToAddress("0x5000000000000000000000000000000000000005")

	packed := append(token.Bytes(), common.LeftPadBytes(big.NewInt(4201).Bytes(), 32)...)
	require.Len(t, packed, 52)
	assert.Equal(t, crypto.Keccak256Hash(packed), AttestationID(token, big.NewInt(4201)))

	assert.NotEqual(t, AttestationID(token, big.NewInt(4201)), AttestationID(token, big.NewInt(1)))
	assert.Equal(t, AttestationID(token, nil), AttestationID(token, big.NewInt(0)))
}
