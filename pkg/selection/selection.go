// Package selection holds the user's bridge form state: the source and
// destination networks, the source token and the amount. It enforces the
// same rules the submit control does before an intent is handed to the
// submission workflow.
package selection

import (
	"strings"
	"sync"

	"loopso-bridge/pkg/fees"
	"loopso-bridge/pkg/types"
)

// SameNetworkWarning is surfaced when source and destination are the same network
const SameNetworkWarning = "Source and Destination networks should not be the same."

// Warner receives user-facing warnings
type Warner func(message string)

// Selection is the mutable input state of one bridge form
type Selection struct {
	mu          sync.RWMutex
	source      *types.Network
	destination *types.Network
	token       *types.Token
	amount      string
	warn        Warner
}

// New creates an empty selection. warn may be nil.
func New(warn Warner) *Selection {
	if warn == nil {
		warn = func(string) {}
	}
	return &Selection{warn: warn}
}

// SetSource selects the source network. A token listed on another network is cleared.
func (s *Selection) SetSource(network *types.Network) {
	s.mu.Lock()
	s.source = network
	if s.token != nil && !s.token.BelongsTo(network) {
		s.token = nil
		s.amount = ""
	}
	same := s.sameNetworkLocked()
	if same {
		s.destination = nil
	}
	s.mu.Unlock()

	if same {
		s.warn(SameNetworkWarning)
	}
}

// SetDestination selects the destination network
func (s *Selection) SetDestination(network *types.Network) {
	s.mu.Lock()
	s.destination = network
	same := s.sameNetworkLocked()
	if same {
		s.destination = nil
	}
	s.mu.Unlock()

	if same {
		s.warn(SameNetworkWarning)
	}
}

// SetToken selects the source token
func (s *Selection) SetToken(token *types.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetAmount stores the entered amount with everything but digits and '.' removed.
// The amount is only accepted once source, token and destination are selected.
func (s *Selection) SetAmount(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selectedLocked() {
		return false
	}
	s.amount = sanitizeAmount(raw)
	return true
}

// CanSubmit reports whether the submit control would be enabled
func (s *Selection) CanSubmit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

// Intent snapshots the current state into a submission intent
func (s *Selection) Intent() types.SubmissionIntent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return types.SubmissionIntent{
		Source:      s.source,
		Destination: s.destination,
		Token:       s.token,
		Amount:      s.amount,
	}
}

// Quote returns the fee and estimated receive amount for the entered amount.
// It returns nil while no valid amount is entered.
func (s *Selection) Quote() *fees.Quote {
	s.mu.RLock()
	amount := s.amount
	s.mu.RUnlock()

	if amount == "" {
		return nil
	}
	q, err := fees.ForAmount(amount)
	if err != nil {
		return nil
	}
	return q
}

func (s *Selection) selectedLocked() bool {
	return s.source != nil && s.token != nil && s.destination != nil
}

func (s *Selection) sameNetworkLocked() bool {
	return s.source != nil && s.destination != nil && s.source.ChainID == s.destination.ChainID
}

func sanitizeAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
