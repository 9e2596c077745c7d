package bridge

import (
	"context"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend is an in-memory chain that answers contract calls by selector
// and mines every sent transaction immediately
type fakeBackend struct {
	mu sync.Mutex

	allowance *big.Int
	balance   *big.Int
	wrapped   WrappedTokenInfo
	revert    bool
	sent      []*gethtypes.Transaction
	nonce     uint64
	callErr   error
	sendErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{allowance: new(big.Int), balance: big.NewInt(1_000_000_000), wrapped: WrappedTokenInfo{SrcChain: new(big.Int)}}
}

func (f *fakeBackend) CodeAt(_ context.Context, _ common.Address, _ *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callErr != nil {
		return nil, f.callErr
	}

	method, err := lookupMethod(msg.Data)
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "allowance":
		return method.Outputs.Pack(f.allowance)
	case "balanceOf":
		return method.Outputs.Pack(f.balance)
	case "getWrappedTokenInfo":
		w := f.wrapped
		return method.Outputs.Pack(w.SrcChain, w.TokenAddress, w.Decimals, w.Name, w.Symbol)
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) HeaderByNumber(_ context.Context, _ *big.Int) (*gethtypes.Header, error) {
	return &gethtypes.Header{Number: big.NewInt(100)}, nil
}

func (f *fakeBackend) PendingCodeAt(_ context.Context, _ common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *gethtypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.nonce++
	return nil
}

func (f *fakeBackend) FilterLogs(_ context.Context, _ ethereum.FilterQuery) ([]gethtypes.Log, error) {
	return nil, nil
}

func (f *fakeBackend) SubscribeFilterLogs(_ context.Context, _ ethereum.FilterQuery, _ chan<- gethtypes.Log) (ethereum.Subscription, error) {
	return nil, ethereum.NotFound
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, tx := range f.sent {
		if tx.Hash() != hash {
			continue
		}
		status := gethtypes.ReceiptStatusSuccessful
		if f.revert {
			status = gethtypes.ReceiptStatusFailed
		}
		return &gethtypes.Receipt{Status: status, TxHash: hash, BlockNumber: big.NewInt(int64(101 + i))}, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) Close() {}

func (f *fakeBackend) transactions() []*gethtypes.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*gethtypes.Transaction(nil), f.sent...)
}

// decodedCall is a sent transaction's method and arguments
type decodedCall struct {
	Method string
	Args   []interface{}
	To     common.Address
	Value  *big.Int
}

func decode(tx *gethtypes.Transaction) (decodedCall, error) {
	method, err := lookupMethod(tx.Data())
	if err != nil {
		return decodedCall{}, err
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		return decodedCall{}, err
	}
	return decodedCall{Method: method.Name, Args: args, To: *tx.To(), Value: tx.Value()}, nil
}

func lookupMethod(data []byte) (*abi.Method, error) {
	if len(data) < 4 {
		return nil, ethereum.NotFound
	}
	for _, parsed := range []abi.ABI{LoopsoABI, erc20ABI, wrappedNativeABI} {
		if m, err := parsed.MethodById(data[:4]); err == nil {
			return m, nil
		}
	}
	return nil, ethereum.NotFound
}
