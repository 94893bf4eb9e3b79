package tone

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// MaxCalls caps remote analyses per composition session.
	MaxCalls = 5
	// trackedPrefixRunes is how much of the text identifies a draft.
	trackedPrefixRunes = 50
	// DefaultMaxSessions bounds the number of live budgets in a Budgets registry.
	DefaultMaxSessions = 1024
)

// Budget counts remote analysis attempts for one composition session.
type Budget struct {
	mu     sync.Mutex
	max    int
	used   int
	prefix string
}

// NewBudget returns a budget allowing maxCalls remote attempts.
func NewBudget(maxCalls int) *Budget {
	return &Budget{max: maxCalls}
}

// Acquire consumes one attempt. It returns false once the budget is exhausted.
func (b *Budget) Acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.used >= b.max {
		return false
	}
	b.used++

	return true
}

// Reset makes every attempt available again.
func (b *Budget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.used = 0
}

// Track resets the budget when the leading part of text differs from the
// previously tracked text, i.e. a different draft is being analyzed.
// It reports whether a reset happened.
func (b *Budget) Track(text string) bool {
	prefix := leadingRunes(text, trackedPrefixRunes)

	b.mu.Lock()
	defer b.mu.Unlock()

	if prefix == b.prefix {
		return false
	}
	b.prefix = prefix
	b.used = 0

	return true
}

// Used returns the number of attempts consumed.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.used
}

// Remaining returns how many remote attempts are left.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.max - b.used
}

// Max returns the budget size.
func (b *Budget) Max() int {
	return b.max
}

func leadingRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Budgets hands out one Budget per session id. The least recently used
// sessions are forgotten once the registry is full.
type Budgets struct {
	mu       sync.Mutex
	maxCalls int
	cache    *lru.Cache[string, *Budget]
}

// NewBudgets creates a registry holding up to maxSessions budgets of maxCalls each.
func NewBudgets(maxSessions, maxCalls int) (*Budgets, error) {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if maxCalls <= 0 {
		maxCalls = MaxCalls
	}

	cache, err := lru.New[string, *Budget](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("lru.New failed: %w", err)
	}

	return &Budgets{maxCalls: maxCalls, cache: cache}, nil
}

// For returns the budget of sessionID, creating a fresh one on first use.
func (r *Budgets) For(sessionID string) *Budget {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.cache.Get(sessionID); ok {
		return b
	}

	b := NewBudget(r.maxCalls)
	r.cache.Add(sessionID, b)

	return b
}

// Forget drops the budget of a closed session.
func (r *Budgets) Forget(sessionID string) {
	r.cache.Remove(sessionID)
}

// Len returns the number of tracked sessions.
func (r *Budgets) Len() int {
	return r.cache.Len()
}

// MaxCalls returns the size of each session budget.
func (r *Budgets) MaxCalls() int {
	return r.maxCalls
}
