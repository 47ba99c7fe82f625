package search

import (
	"sort"
	"strings"
	"sync"
)

// defaultHistorySize caps both the recent list and the suggestion count.
const defaultHistorySize = 10

// History tracks recent and popular queries for the suggestion box. Popular
// queries are counted case-insensitively and deduplicated.
type History struct {
	mu     sync.Mutex
	cap    int
	recent []string       // newest first, case-insensitively deduplicated
	counts map[string]int // lowercased query → times issued
	labels map[string]string
}

// NewHistory builds a history with the given cap; non-positive caps use the
// default of 10.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistorySize
	}
	return &History{
		cap:    capacity,
		counts: map[string]int{},
		labels: map[string]string{},
	}
}

// Record notes one issued query. Blank queries are ignored.
func (h *History) Record(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	key := strings.ToLower(query)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[key]++
	h.labels[key] = query

	kept := h.recent[:0]
	for _, q := range h.recent {
		if strings.ToLower(q) != key {
			kept = append(kept, q)
		}
	}
	h.recent = append([]string{query}, kept...)
	if len(h.recent) > h.cap {
		h.recent = h.recent[:h.cap]
	}
}

// Recent returns the most recently issued queries, newest first.
func (h *History) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.recent))
	copy(out, h.recent)
	return out
}

// Popular returns the most frequently issued queries, most frequent first,
// capped at the history size. Ties break alphabetically for stable output.
func (h *History) Popular() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]string, 0, len(h.counts))
	for k := range h.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if h.counts[keys[i]] != h.counts[keys[j]] {
			return h.counts[keys[i]] > h.counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > h.cap {
		keys = keys[:h.cap]
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, h.labels[k])
	}
	return out
}

// Suggestions merges recent queries with popular ones, recent first,
// deduplicated, capped at the history size. Offered when the query box is
// empty; not part of the ranking contract.
func (h *History) Suggestions() []string {
	recent := h.Recent()
	popular := h.Popular()

	h.mu.Lock()
	capN := h.cap
	h.mu.Unlock()

	seen := map[string]bool{}
	out := make([]string, 0, capN)
	for _, list := range [][]string{recent, popular} {
		for _, q := range list {
			key := strings.ToLower(q)
			if seen[key] || len(out) >= capN {
				continue
			}
			seen[key] = true
			out = append(out, q)
		}
	}
	return out
}

// HistoryState is the serializable form of the history for snapshots.
type HistoryState struct {
	Recent []string
	Counts map[string]int
	Labels map[string]string
}

// Snapshot exports the history state.
func (h *History) Snapshot() HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	state := HistoryState{
		Recent: append([]string{}, h.recent...),
		Counts: map[string]int{},
		Labels: map[string]string{},
	}
	for k, v := range h.counts {
		state.Counts[k] = v
	}
	for k, v := range h.labels {
		state.Labels[k] = v
	}
	return state
}

// Restore replaces the history from a snapshot.
func (h *History) Restore(state HistoryState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recent = append([]string{}, state.Recent...)
	if len(h.recent) > h.cap {
		h.recent = h.recent[:h.cap]
	}
	h.counts = map[string]int{}
	for k, v := range state.Counts {
		h.counts[k] = v
	}
	h.labels = map[string]string{}
	for k, v := range state.Labels {
		h.labels[k] = v
	}
}
