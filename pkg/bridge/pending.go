package bridge

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

type minedTx struct {
	tx      *gethtypes.Transaction
	backend bind.DeployBackend
}

func newPendingTx(tx *gethtypes.Transaction, backend bind.DeployBackend) PendingTx {
	return &minedTx{tx: tx, backend: backend}
}

func (m *minedTx) Hash() common.Hash {
	return m.tx.Hash()
}

func (m *minedTx) Wait(ctx context.Context) (*gethtypes.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, m.backend, m.tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", m.tx.Hash().Hex(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in block %d", ErrTxReverted, m.tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}
