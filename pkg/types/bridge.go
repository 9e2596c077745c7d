package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultDecimals is applied to tokens whose configuration omits decimals
const DefaultDecimals int32 = 18

// NoTxHash is recorded as the last transaction hash when a submission fails
const NoTxHash = "ERROR: No tx hash"

// Network describes a chain the bridge is deployed on
type Network struct {
	Key            string `mapstructure:"key" json:"key"`
	Name           string `mapstructure:"name" json:"name"`
	ChainID        int64  `mapstructure:"chain_id" json:"chain_id"`
	RPCUrl         string `mapstructure:"rpc_url" json:"rpc_url"`
	ExplorerURL    string `mapstructure:"explorer_url" json:"explorer_url,omitempty"`
	NativeSymbol   string `mapstructure:"native_symbol" json:"native_symbol,omitempty"`
	BridgeContract string `mapstructure:"bridge_contract" json:"bridge_contract"`
	WrappedNative  string `mapstructure:"wrapped_native" json:"wrapped_native,omitempty"`
}

// BridgeAddress returns the Loopso contract address on this network
func (n *Network) BridgeAddress() common.Address {
	return common.HexToAddress(n.BridgeContract)
}

// Token describes a bridgeable token on one network
type Token struct {
	Symbol   string `mapstructure:"symbol" json:"symbol"`
	Name     string `mapstructure:"name" json:"name,omitempty"`
	Network  string `mapstructure:"network" json:"network"`
	Address  string `mapstructure:"address" json:"address"`
	Decimals int32  `mapstructure:"decimals" json:"decimals"`
	IsNative bool   `mapstructure:"native" json:"native"`
}

// BelongsTo reports whether the token is listed on the given network
func (t *Token) BelongsTo(network *Network) bool {
	return network != nil && strings.EqualFold(t.Network, network.Key)
}

// SubmissionIntent is the snapshot of the user's selection taken at submit time
type SubmissionIntent struct {
	Source      *Network
	Destination *Network
	Token       *Token
	Amount      string
}

// Complete reports whether every selection is present and the networks differ
func (i SubmissionIntent) Complete() bool {
	if i.Source == nil || i.Destination == nil || i.Token == nil {
		return false
	}
	return i.Source.ChainID != i.Destination.ChainID
}

// Outcome is the result of one submission attempt
type Outcome struct {
	TxHash string
	Err    error
}

// Succeeded returns true when the bridge transaction was confirmed
func (o *Outcome) Succeeded() bool {
	return o != nil && o.Err == nil && o.TxHash != ""
}
