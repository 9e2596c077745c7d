package explorer

import (
	"strings"

	"loopso-bridge/pkg/types"
)

// Resolver maps a chain id and transaction hash to a block explorer URL
type Resolver struct {
	baseURLs map[int64]string
}

// NewResolver builds a resolver from the configured networks
func NewResolver(networks []types.Network) *Resolver {
	r := &Resolver{baseURLs: make(map[int64]string, len(networks))}
	for _, n := range networks {
		if n.ExplorerURL != "" {
			r.baseURLs[n.ChainID] = strings.TrimRight(n.ExplorerURL, "/")
		}
	}
	return r
}

// TransactionURL returns the explorer page for a transaction, or "" when the
// chain has no explorer configured
func (r *Resolver) TransactionURL(chainID int64, txHash string) string {
	base, ok := r.baseURLs[chainID]
	if !ok || txHash == "" {
		return ""
	}
	return base + "/tx/" + txHash
}
