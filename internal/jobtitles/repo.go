package jobtitles

import (
	"context"
	"errors"
)

// ErrNotFound indicates no matching reference row.
var ErrNotFound = errors.New("job title not found")

// Repo defines read access to the job title taxonomy.
type Repo interface {
	// GetCanonical looks up a canonical title case-insensitively.
	GetCanonical(ctx context.Context, title string) (CanonicalJobTitle, error)
	// FindVariations returns variations matching the lowercased input,
	// ordered by confidence descending.
	FindVariations(ctx context.Context, variation string) ([]Variation, error)
	// ListByCategory returns non-generic canonical titles in a category.
	ListByCategory(ctx context.Context, category string) ([]CanonicalJobTitle, error)
	// SearchByKeyword returns canonical titles sharing a word with the input.
	SearchByKeyword(ctx context.Context, text string) ([]CanonicalJobTitle, error)
	// GetTemplate returns the role template for a canonical title.
	GetTemplate(ctx context.Context, canonical string) (RoleTemplate, error)
}
