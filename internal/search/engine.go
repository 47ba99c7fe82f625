// Package search projects the ticket collection into a denormalized,
// searchable form and answers ranked queries over it.
package search

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

const (
	previewWindow = 120
	previewLead   = 20
)

// Source is the slice of the ticket store the engine reads. The revision
// counter tells the engine when its projection is stale.
type Source interface {
	List() []domain.Ticket
	Revision() uint64
}

// Record is the denormalized projection of one ticket.
type Record struct {
	ID          int
	Key         string
	Title       string
	Description string
	Category    string
	Priority    string
	Assignee    string
	Client      string
	Status      domain.Status
	Stage       domain.Stage
	Tags        []string
	CreatedAt   time.Time
}

// Filters restricts the candidate set before scoring. Zero-valued fields
// are inactive; the date range is inclusive on both ends.
type Filters struct {
	Category    string
	Priority    string
	Assignee    string
	Status      domain.Status
	Stage       domain.Stage
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// FieldMatch records which query terms hit one field, for highlighting.
type FieldMatch struct {
	Field string
	Value string
	Terms []string
}

// Result is one ranked search hit.
type Result struct {
	Record  Record
	Score   int
	Matches []FieldMatch
	Preview string
}

// weightedFields lists the scored fields in weight order: a field
// contributes (terms found as substring) × weight to the total.
var weightedFields = []struct {
	name   string
	weight int
	value  func(Record) string
}{
	{"title", 3, func(r Record) string { return r.Title }},
	{"key", 2, func(r Record) string { return r.Key }},
	{"description", 2, func(r Record) string { return r.Description }},
	{"category", 1, func(r Record) string { return r.Category }},
	{"assignee", 1, func(r Record) string { return r.Assignee }},
	{"client", 1, func(r Record) string { return r.Client }},
	{"tags", 1, func(r Record) string { return strings.Join(r.Tags, " ") }},
}

// Engine caches the projection and rebuilds it lazily whenever the source
// revision moves.
type Engine struct {
	source  Source
	history *History

	mu       sync.Mutex
	revision uint64
	records  []Record
	fresh    bool
}

// NewEngine constructs an engine over the given source. history may be nil.
func NewEngine(source Source, history *History) *Engine {
	return &Engine{source: source, history: history}
}

// Search returns ranked results for the query after applying the filters.
// An empty query returns the filtered set unscored, in collection order.
// Non-empty queries are recorded into the search history.
func (e *Engine) Search(query string, filters Filters) []Result {
	records := e.projection()

	candidates := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesFilters(r, filters) {
			candidates = append(candidates, r)
		}
	}

	terms := splitTerms(query)
	if len(terms) == 0 {
		out := make([]Result, 0, len(candidates))
		for _, r := range candidates {
			out = append(out, Result{Record: r, Preview: snippet(r.Description, nil)})
		}
		return out
	}
	if e.history != nil {
		e.history.Record(query)
	}

	results := make([]Result, 0, len(candidates))
	for _, r := range candidates {
		score := 0
		var matches []FieldMatch
		for _, field := range weightedFields {
			value := field.value(r)
			if value == "" {
				continue
			}
			lower := strings.ToLower(value)
			var hit []string
			for _, term := range terms {
				if strings.Contains(lower, term) {
					hit = append(hit, term)
				}
			}
			if len(hit) == 0 {
				continue
			}
			score += len(hit) * field.weight
			matches = append(matches, FieldMatch{Field: field.name, Value: value, Terms: hit})
		}
		if score == 0 {
			continue
		}
		results = append(results, Result{
			Record:  r,
			Score:   score,
			Matches: matches,
			Preview: snippet(r.Description, terms),
		})
	}

	// Stable sort: equal scores keep collection order, which is the tie
	// contract callers rely on.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// FilterOptions returns the distinct values per filterable field, for
// populating filter dropdowns.
type FilterOptions struct {
	Categories []string
	Priorities []string
	Assignees  []string
	Statuses   []domain.Status
	Stages     []domain.Stage
}

// Options computes the distinct filter values over the current projection.
func (e *Engine) Options() FilterOptions {
	records := e.projection()
	opts := FilterOptions{}
	seenCat := map[string]bool{}
	seenPri := map[string]bool{}
	seenAsg := map[string]bool{}
	seenSta := map[domain.Status]bool{}
	seenStg := map[domain.Stage]bool{}
	for _, r := range records {
		if r.Category != "" && !seenCat[r.Category] {
			seenCat[r.Category] = true
			opts.Categories = append(opts.Categories, r.Category)
		}
		if r.Priority != "" && !seenPri[r.Priority] {
			seenPri[r.Priority] = true
			opts.Priorities = append(opts.Priorities, r.Priority)
		}
		if r.Assignee != "" && !seenAsg[r.Assignee] {
			seenAsg[r.Assignee] = true
			opts.Assignees = append(opts.Assignees, r.Assignee)
		}
		if !seenSta[r.Status] {
			seenSta[r.Status] = true
			opts.Statuses = append(opts.Statuses, r.Status)
		}
		if !seenStg[r.Stage] {
			seenStg[r.Stage] = true
			opts.Stages = append(opts.Stages, r.Stage)
		}
	}
	sort.Strings(opts.Categories)
	sort.Strings(opts.Priorities)
	sort.Strings(opts.Assignees)
	return opts
}

// Suggestions returns history-based suggestions for an empty query box.
func (e *Engine) Suggestions() []string {
	if e.history == nil {
		return nil
	}
	return e.history.Suggestions()
}

// projection rebuilds the denormalized records when the source revision has
// moved since the last build.
func (e *Engine) projection() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	rev := e.source.Revision()
	if e.fresh && rev == e.revision {
		return e.records
	}
	tickets := e.source.List()
	records := make([]Record, 0, len(tickets))
	for _, t := range tickets {
		assignee := ""
		if t.Assignee != nil {
			assignee = *t.Assignee
		}
		records = append(records, Record{
			ID:          t.ID,
			Key:         t.Key,
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
			Priority:    t.Priority,
			Assignee:    assignee,
			Client:      t.Client,
			Status:      t.Status,
			Stage:       t.Stage,
			Tags:        t.Tags,
			CreatedAt:   t.CreatedAt,
		})
	}
	e.records = records
	e.revision = rev
	e.fresh = true
	return e.records
}

func matchesFilters(r Record, f Filters) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Priority != "" && r.Priority != f.Priority {
		return false
	}
	if f.Assignee != "" && r.Assignee != f.Assignee {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Stage != "" && r.Stage != f.Stage {
		return false
	}
	if f.CreatedFrom != nil && r.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && r.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// splitTerms lowercases the query and splits it on whitespace, discarding
// empty terms.
func splitTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// snippet builds the description preview: a window of previewWindow runes
// starting previewLead runes before the first term occurrence, with ellipses
// where the window clips the text. With no matching term the text is plainly
// truncated.
func snippet(text string, terms []string) string {
	runes := []rune(text)
	lower := strings.ToLower(text)

	first := -1
	for _, term := range terms {
		if idx := strings.Index(lower, term); idx >= 0 && (first == -1 || idx < first) {
			first = idx
		}
	}

	if first == -1 {
		if len(runes) <= previewWindow {
			return text
		}
		return string(runes[:previewWindow]) + "..."
	}

	start := utf8.RuneCountInString(lower[:first]) - previewLead
	if start < 0 {
		start = 0
	}
	end := start + previewWindow
	if end > len(runes) {
		end = len(runes)
	}

	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}
