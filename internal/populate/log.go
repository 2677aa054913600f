package populate

import (
	"sync"
	"time"
)

// populationWindow is how long a query's external fetch suppresses repeats.
const populationWindow = 24 * time.Hour

// populationLog remembers which queries were recently populated so the same
// miss does not burn budget twice in a day. In-memory only; a restart
// forgetting the log costs at most one redundant external call per query.
type populationLog struct {
	mu      sync.Mutex
	entries map[string]time.Time

	now func() time.Time // Injectable for tests
}

func newPopulationLog() *populationLog {
	return &populationLog{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// ShouldPopulate reports whether the query is outside its suppression window.
func (l *populationLog) ShouldPopulate(query string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.entries[query]
	if !ok {
		return true
	}
	return l.now().Sub(last) >= populationWindow
}

// MarkPopulated records an external fetch for the query.
func (l *populationLog) MarkPopulated(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[query] = l.now()
}

// Size returns the number of tracked queries.
func (l *populationLog) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
