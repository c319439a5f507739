package utils

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type TimerStat struct {
	Count int
	Total time.Duration
	Last  time.Duration
}

func (ts TimerStat) Mean() time.Duration {
	if ts.Count == 0 {
		return 0
	}
	return ts.Total / time.Duration(ts.Count)
}

// Timer accumulates wall time per label, Begin and End may nest across labels
type Timer struct {
	mu      sync.Mutex
	started map[string]time.Time
	stats   map[string]TimerStat
}

func NewTimer() *Timer {
	return &Timer{
		started: make(map[string]time.Time),
		stats:   make(map[string]TimerStat),
	}
}

func (t *Timer) Begin(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started[label] = time.Now()
}

// End closes the interval opened by Begin, an unmatched End records nothing
func (t *Timer) End(label string) (elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.started[label]
	if !ok {
		return
	}
	delete(t.started, label)
	elapsed = time.Since(start)
	st := t.stats[label]
	st.Count++
	st.Total += elapsed
	st.Last = elapsed
	t.stats[label] = st
	return
}

func (t *Timer) Stat(label string) TimerStat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats[label]
}

func (t *Timer) Labels() (labels []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for label := range t.stats {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return
}

func (t *Timer) String() (s string) {
	for _, label := range t.Labels() {
		st := t.Stat(label)
		s += fmt.Sprintf("%s: count = %d, total = %v, mean = %v\n", label, st.Count, st.Total, st.Mean())
	}
	return
}
