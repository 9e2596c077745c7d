package bridge

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const loopsoABIJSON = `[
	{"type":"function","name":"bridgeTokens","stateMutability":"nonpayable","inputs":[{"name":"_token","type":"address"},{"name":"_amount","type":"uint256"},{"name":"_dstChain","type":"uint256"},{"name":"_dstAddress","type":"address"}],"outputs":[]},
	{"type":"function","name":"bridgeTokensBack","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"},{"name":"_dstAddress","type":"address"},{"name":"_attestationId","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"getWrappedTokenInfo","stateMutability":"view","inputs":[{"name":"_token","type":"address"}],"outputs":[{"name":"srcChain","type":"uint256"},{"name":"tokenAddress","type":"address"},{"name":"decimals","type":"uint8"},{"name":"name","type":"string"},{"name":"symbol","type":"string"}]},
	{"type":"event","name":"TokensReleased","anonymous":false,"inputs":[{"name":"token","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"attestationId","type":"bytes32","indexed":false}]},
	{"type":"event","name":"WrappedTokensReleased","anonymous":false,"inputs":[{"name":"wrappedToken","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"attestationId","type":"bytes32","indexed":false}]}
]`

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

const wrappedNativeABIJSON = `[
	{"constant":false,"inputs":[],"name":"deposit","outputs":[],"payable":true,"stateMutability":"payable","type":"function"}
]`

var (
	// LoopsoABI is the subset of the Loopso bridge interface this client uses
	LoopsoABI        = mustParseABI(loopsoABIJSON)
	erc20ABI         = mustParseABI(erc20ABIJSON)
	wrappedNativeABI = mustParseABI(wrappedNativeABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("bridge: invalid abi: " + err.Error())
	}
	return parsed
}
