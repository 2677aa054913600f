package perfumero

import (
	"sync"
	"time"
)

// BudgetStats is a point-in-time snapshot of daily API consumption.
type BudgetStats struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetDate string `json:"reset_date"` // UTC day the counter belongs to
}

// UsageBudget tracks daily API consumption against a hard limit.
//
// The counter resets lazily: the first acquisition (or snapshot) on a new UTC
// day zeroes it. Acquisition happens before dispatch, so a request that fails
// in flight still counts - the upstream meter has no refund either.
type UsageBudget struct {
	mu    sync.Mutex
	limit int
	used  int
	day   string // UTC day in 2006-01-02 form

	now func() time.Time // Injectable for tests
}

// NewUsageBudget creates a budget with the given daily limit.
func NewUsageBudget(limit int) *UsageBudget {
	return &UsageBudget{
		limit: limit,
		now:   time.Now,
	}
}

// currentDay returns the UTC day for the injected clock.
func (b *UsageBudget) currentDay() string {
	return b.now().UTC().Format("2006-01-02")
}

// resetIfStale zeroes the counter when the UTC day has rolled over.
// Caller must hold the mutex.
func (b *UsageBudget) resetIfStale() {
	day := b.currentDay()
	if day != b.day {
		b.day = day
		b.used = 0
	}
}

// TryAcquire consumes one unit of budget. Returns false when the daily limit
// is already reached; the counter is not incremented in that case.
func (b *UsageBudget) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfStale()
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Remaining returns the unused portion of today's budget.
func (b *UsageBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfStale()
	return b.limit - b.used
}

// Stats returns a consistent snapshot of today's consumption.
func (b *UsageBudget) Stats() BudgetStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfStale()
	return BudgetStats{
		Used:      b.used,
		Limit:     b.limit,
		Remaining: b.limit - b.used,
		ResetDate: b.day,
	}
}
