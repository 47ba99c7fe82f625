package dto

import "github.com/spec-kit/ticket-flow/internal/domain"

// FieldMatchResponse marks the query terms found in one field.
type FieldMatchResponse struct {
	Field string   `json:"field"`
	Value string   `json:"value"`
	Terms []string `json:"terms"`
}

// SearchResultResponse is one ranked hit.
type SearchResultResponse struct {
	Ticket  TicketResponse       `json:"ticket"`
	Score   int                  `json:"score"`
	Matches []FieldMatchResponse `json:"matches"`
	Preview string               `json:"preview"`
}

// SearchResponse wraps a ranked result list.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Total   int                    `json:"total"`
	Results []SearchResultResponse `json:"results"`
}

// FilterOptionsResponse lists the distinct values per filterable field.
type FilterOptionsResponse struct {
	Categories []string        `json:"categories"`
	Priorities []string        `json:"priorities"`
	Assignees  []string        `json:"assignees"`
	Statuses   []domain.Status `json:"statuses"`
	Stages     []domain.Stage  `json:"stages"`
}

// SuggestionsResponse carries history-based query suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
