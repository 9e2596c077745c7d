package bridge

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a decimal amount such as "1.5" into the token's
// smallest unit. Amounts with more fractional digits than the token supports
// are rejected rather than rounded.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: token decimals %d", ErrInvalidAmount, decimals)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if !value.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}

	shifted := value.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, amount, decimals)
	}
	return shifted.BigInt(), nil
}
