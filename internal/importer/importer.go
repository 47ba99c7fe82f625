// Package importer turns already-column-mapped spreadsheet rows into ticket
// payloads. Import is never all-or-nothing: invalid rows become row-scoped
// error strings while the rest proceed.
package importer

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-flow/internal/store"
)

// Row is one spreadsheet row after column mapping.
type Row struct {
	Title       string
	Description string
	Client      string
	Priority    string
	Category    string
}

// Result summarizes an import run. Payloads holds exactly the valid rows,
// already defaulted for the ticket store (stage client, initial status,
// empty tags and comments are applied by the store on insert).
type Result struct {
	TotalRows   int
	ValidRows   int
	InvalidRows int
	Payloads    []store.TicketInput
	Errors      []string
}

// fieldOrder fixes the error message ordering so row errors are
// deterministic.
var fieldOrder = []string{"title", "description", "client"}

// ParseRows validates every row with the same rules the ticket form uses and
// collects the survivors as store-ready payloads.
func ParseRows(rows []Row) Result {
	result := Result{TotalRows: len(rows)}
	for i, row := range rows {
		input := store.TicketInput{
			Title:       row.Title,
			Description: row.Description,
			Client:      row.Client,
			Priority:    row.Priority,
			Category:    row.Category,
		}
		if input.Priority == "" {
			input.Priority = "medium"
		}
		validation := store.ValidateTicketForm(input)
		if !validation.IsValid {
			result.InvalidRows++
			result.Errors = append(result.Errors,
				fmt.Sprintf("linha %d: %s", i+1, joinFieldErrors(validation.Errors)))
			continue
		}
		result.ValidRows++
		result.Payloads = append(result.Payloads, input)
	}
	return result
}

func joinFieldErrors(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for _, field := range fieldOrder {
		if msg, ok := errs[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}
