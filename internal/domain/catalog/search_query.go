package catalog

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	minQueryTextLength = 2
	maxQueryTextLength = 200
)

// SearchQuery is a persistent unit of sync work: free text searched on the
// marketplace, tied to a brand and optionally a category used as
// classification fallback.
type SearchQuery struct {
	ID         uuid.UUID
	BrandID    uuid.UUID
	CategoryID *uuid.UUID
	QueryText  string
	Enabled    bool
	LastSyncAt *time.Time
	CreatedAt  time.Time
}

// NewSearchQuery creates an enabled query
func NewSearchQuery(brandID uuid.UUID, categoryID *uuid.UUID, text string) (*SearchQuery, error) {
	if brandID == uuid.Nil {
		return nil, ErrQueryBrandRequired
	}
	if err := validateQueryText(text); err != nil {
		return nil, err
	}
	return &SearchQuery{
		ID:         uuid.New(),
		BrandID:    brandID,
		CategoryID: categoryID,
		QueryText:  text,
		Enabled:    true,
		CreatedAt:  time.Now(),
	}, nil
}

// UpdateText replaces the query text
func (q *SearchQuery) UpdateText(text string) error {
	if err := validateQueryText(text); err != nil {
		return err
	}
	q.QueryText = text
	return nil
}

// SetEnabled toggles whether the query takes part in sync runs
func (q *SearchQuery) SetEnabled(enabled bool) {
	q.Enabled = enabled
}

// MarkSynced stamps the last sync time
func (q *SearchQuery) MarkSynced(at time.Time) {
	q.LastSyncAt = &at
}

func validateQueryText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < minQueryTextLength || n > maxQueryTextLength {
		return ErrInvalidQueryText
	}
	return nil
}

// SearchQueryView is a query joined with its brand and category display names.
type SearchQueryView struct {
	SearchQuery
	BrandName    *string
	CategoryName *string
}
