package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ReferenceIndex resolves brand and category slugs to ids.
type ReferenceIndex struct {
	BrandIDs    map[string]uuid.UUID
	CategoryIDs map[string]uuid.UUID
}

// NewReferenceIndex builds an index from the reference rows
func NewReferenceIndex(brands []Brand, categories []AccessoryCategory) *ReferenceIndex {
	idx := &ReferenceIndex{
		BrandIDs:    make(map[string]uuid.UUID, len(brands)),
		CategoryIDs: make(map[string]uuid.UUID, len(categories)),
	}
	for _, b := range brands {
		idx.BrandIDs[b.Slug] = b.ID
	}
	for _, c := range categories {
		idx.CategoryIDs[c.Slug] = c.ID
	}
	return idx
}

// BrandID returns the id of a brand slug
func (i *ReferenceIndex) BrandID(slug string) (uuid.UUID, bool) {
	id, ok := i.BrandIDs[slug]
	return id, ok && slug != ""
}

// CategoryID returns the id of a category slug
func (i *ReferenceIndex) CategoryID(slug string) (uuid.UUID, bool) {
	id, ok := i.CategoryIDs[slug]
	return id, ok && slug != ""
}

// ReferenceSource provides the current reference index
type ReferenceSource interface {
	Index(ctx context.Context) (*ReferenceIndex, error)
}
