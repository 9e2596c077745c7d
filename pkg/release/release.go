// Package release settles a submission's pending notification once the
// transfer has had a chance to land on the destination chain.
package release

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"loopso-bridge/pkg/types"
)

// DefaultDelay is how long Timed waits before settling
const DefaultDelay = 10 * time.Second

// Release identifies a confirmed source transaction whose funds are
// expected on the destination chain
type Release struct {
	Destination *types.Network
	Recipient   common.Address
	TxHash      common.Hash
}

// FollowUp settles a release. The returned channel is closed exactly once,
// when the release is considered delivered, when waiting gives up, or when
// ctx is cancelled.
type FollowUp interface {
	Await(ctx context.Context, r Release) <-chan struct{}
}

// Timed settles after a fixed delay. It does not observe the chain.
type Timed struct {
	Delay time.Duration
}

// Await closes the returned channel after the delay
func (t *Timed) Await(ctx context.Context, _ Release) <-chan struct{} {
	delay := t.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}()
	return done
}
