package payments

import (
	"sync"

	"github.com/google/uuid"
)

// State names one stage of a settlement attempt. A settlement advances
// strictly forward; any failure lands in StateRejected or StateFailed.
type State string

const (
	StateReceived         State = "received"
	StateInvoiceValidated State = "invoice_validated"
	StateCardAuthorized   State = "card_authorized"
	StateCardDebited      State = "card_debited"
	StateMerchantCredited State = "merchant_credited"
	StateInvoicePaid      State = "invoice_paid"
	StateLogged           State = "logged"

	// StateRejected means no side effect was performed.
	StateRejected State = "rejected"
	// StateFailed means at least one mutation happened and compensation ran
	// (or was knowingly skipped, see Pay).
	StateFailed State = "failed"
)

// settlement tracks the progress of one attempt for logging and metrics.
type settlement struct {
	state State
	trail []State
}

func newSettlement() *settlement {
	s := &settlement{}
	s.advance(StateReceived)
	return s
}

func (s *settlement) advance(next State) {
	s.state = next
	s.trail = append(s.trail, next)
}

// trailStrings renders the visited states for log fields.
func (s *settlement) trailStrings() []string {
	out := make([]string, 0, len(s.trail))
	for _, visited := range s.trail {
		out = append(out, string(visited))
	}
	return out
}

// cardLocks serializes settlements per card so two concurrent payments cannot
// interleave their read-check-debit sequences on the same balance. The map
// keeps one mutex per card ever seen and never evicts; the stored instrument
// set is small and long-lived, so the footprint stays bounded in practice.
type cardLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newCardLocks() *cardLocks {
	return &cardLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (c *cardLocks) lock(cardID uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	m, ok := c.locks[cardID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[cardID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m
}
