package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"loopso-bridge/pkg/types"
)

// Resolver picks a signing strategy by wallet label
type Resolver struct {
	dial       Dialer
	fallback   Strategy
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewResolver creates a resolver. Wallets with no registered label use fallback.
func NewResolver(dial Dialer, fallback Strategy) *Resolver {
	if dial == nil {
		dial = DialEthclient
	}
	return &Resolver{
		dial:       dial,
		fallback:   fallback,
		strategies: make(map[string]Strategy),
	}
}

// Register binds a strategy to a wallet label
func (r *Resolver) Register(label string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strings.ToLower(label)] = s
}

// StrategyFor returns the strategy used for a wallet label
func (r *Resolver) StrategyFor(label string) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.strategies[strings.ToLower(label)]; ok {
		return s
	}
	return r.fallback
}

// ResolveSigner returns a signer for w bound to network. The caller closes
// the signer when done.
func (r *Resolver) ResolveSigner(ctx context.Context, w *Wallet, network *types.Network) (Signer, error) {
	if w == nil {
		return nil, ErrNoWallet
	}

	strategy := r.StrategyFor(w.Label)
	if strategy == nil {
		return nil, fmt.Errorf("no signing strategy for wallet %q", w.Label)
	}

	backend, err := Dial(ctx, r.dial, network)
	if err != nil {
		return nil, err
	}

	signer, err := strategy.Signer(ctx, w, network, backend)
	if err != nil {
		if backend != nil {
			backend.Close()
		}
		return nil, err
	}
	return signer, nil
}
