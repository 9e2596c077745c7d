package bridge

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AttestationID binds a wrapped token to its origin token and chain:
// keccak256(abi.encodePacked(address token, uint256 srcChain)).
func AttestationID(token common.Address, srcChain *big.Int) common.Hash {
	if srcChain == nil {
		srcChain = new(big.Int)
	}
	return crypto.Keccak256Hash(token.Bytes(), common.LeftPadBytes(srcChain.Bytes(), 32))
}
