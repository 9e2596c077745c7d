// Package fees computes the display-only bridge fee and the estimated
// amount received on the destination network.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is the bridge fee charged on the sent amount
var Rate = decimal.RequireFromString("0.005")

// Quote holds the derived display values for an amount
type Quote struct {
	Amount  decimal.Decimal
	Fee     decimal.Decimal
	Receive decimal.Decimal
}

// Fee returns amount * 0.005 rounded to 2 decimals
func Fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(Rate).Round(2)
}

// ReceiveAmount returns amount * 0.995 rounded to 2 decimals
func ReceiveAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(Rate)).Round(2)
}

// ForAmount parses a user-entered amount and derives its quote
func ForAmount(raw string) (*Quote, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %s", raw)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &Quote{
		Amount:  amount,
		Fee:     Fee(amount),
		Receive: ReceiveAmount(amount),
	}, nil
}

// FeeString formats the fee with 2 decimals
func (q *Quote) FeeString() string {
	return q.Fee.StringFixed(2)
}

// ReceiveString formats the receive amount with 2 decimals
func (q *Quote) ReceiveString() string {
	return q.Receive.StringFixed(2)
}
