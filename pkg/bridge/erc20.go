package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"loopso-bridge/pkg/wallet"
)

// ERC20 is a minimal fungible token binding
type ERC20 struct {
	address  common.Address
	contract *bind.BoundContract
	signer   wallet.Signer
}

// NewERC20 binds the token at address through the signer's backend
func NewERC20(address common.Address, signer wallet.Signer) *ERC20 {
	backend := signer.Backend()
	return &ERC20{
		address:  address,
		contract: bind.NewBoundContract(address, erc20ABI, backend, backend, backend),
		signer:   signer,
	}
}

// Allowance returns how much spender may move on behalf of owner
func (e *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := e.contract.Call(&bind.CallOpts{Context: ctx, From: owner}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	return *abiConvert[*big.Int](out, 0), nil
}

// BalanceOf returns the token balance of account
func (e *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := e.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account); err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return *abiConvert[*big.Int](out, 0), nil
}

// Approve lets spender move amount and returns the pending approval
func (e *ERC20) Approve(ctx context.Context, spender common.Address, amount *big.Int) (PendingTx, error) {
	tx, err := e.contract.Transact(e.signer.TransactOpts(ctx), "approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to send approve: %w", err)
	}
	return newPendingTx(tx, e.signer.Backend()), nil
}

// EnsureAllowance approves spender for amount when the current allowance is
// short and waits for the approval to be mined
func (e *ERC20) EnsureAllowance(ctx context.Context, spender common.Address, amount *big.Int) error {
	owner := e.signer.Address()
	current, err := e.Allowance(ctx, owner, spender)
	if err != nil {
		return err
	}
	if current.Cmp(amount) >= 0 {
		return nil
	}

	pending, err := e.Approve(ctx, spender, amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrApproveFailed, err)
	}
	if _, err := pending.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrApproveFailed, err)
	}
	return nil
}
