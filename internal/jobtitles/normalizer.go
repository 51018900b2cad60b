package jobtitles

import (
	"context"
	"errors"
	"strings"
)

const (
	// Matches at or above this confidence resolve directly.
	highConfidence = 85
	// Matches below this confidence are not offered even as suggestions.
	confidenceFloor = 40
)

// ErrEmptyTitle is returned for blank input.
var ErrEmptyTitle = errors.New("job title is required")

// Normalizer resolves free-text job titles against the taxonomy. It never
// silently guesses: anything below the high threshold comes back with a
// nil canonical title and suggestions for the caller to disambiguate.
type Normalizer struct {
	repo Repo
}

// NewNormalizer creates a Normalizer backed by the given repo.
func NewNormalizer(repo Repo) *Normalizer {
	return &Normalizer{repo: repo}
}

// Normalize maps free-text input onto a canonical job title.
// Normalizing an already-canonical title is idempotent and returns
// confidence 100.
func (n *Normalizer) Normalize(ctx context.Context, input string) (Result, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Result{}, ErrEmptyTitle
	}

	if canon, err := n.repo.GetCanonical(ctx, trimmed); err == nil {
		return n.resolve(ctx, canon, 100)
	} else if !errors.Is(err, ErrNotFound) {
		return Result{}, err
	}

	variations, err := n.repo.FindVariations(ctx, trimmed)
	if err != nil {
		return Result{}, err
	}

	if len(variations) > 0 && variations[0].Confidence >= highConfidence {
		canon, err := n.repo.GetCanonical(ctx, variations[0].Canonical)
		if err != nil {
			return Result{}, err
		}
		return n.resolve(ctx, canon, variations[0].Confidence)
	}

	// No confident match: collect suggestions instead of guessing.
	suggestions := make([]string, 0, 4)
	seen := make(map[string]struct{})
	for _, v := range variations {
		if v.Confidence < confidenceFloor {
			continue
		}
		if _, ok := seen[v.Canonical]; ok {
			continue
		}
		seen[v.Canonical] = struct{}{}
		suggestions = append(suggestions, v.Canonical)
	}
	related, err := n.repo.SearchByKeyword(ctx, trimmed)
	if err != nil {
		return Result{}, err
	}
	for _, t := range related {
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		suggestions = append(suggestions, t.Title)
	}

	return Result{CanonicalTitle: nil, Confidence: 0, Suggestions: suggestions}, nil
}

// Template returns the role template for a canonical title, or a zero
// template when none is seeded.
func (n *Normalizer) Template(ctx context.Context, canonical string) (RoleTemplate, error) {
	tpl, err := n.repo.GetTemplate(ctx, canonical)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RoleTemplate{Canonical: canonical}, nil
		}
		return RoleTemplate{}, err
	}
	return tpl, nil
}

func (n *Normalizer) resolve(ctx context.Context, canon CanonicalJobTitle, confidence int) (Result, error) {
	result := Result{CanonicalTitle: &canon, Confidence: confidence}
	if !canon.IsGeneric {
		return result, nil
	}

	result.RequiresSpecialization = true
	specializations, err := n.repo.ListByCategory(ctx, canon.Category)
	if err != nil {
		return Result{}, err
	}
	for _, s := range specializations {
		result.Specializations = append(result.Specializations, s.Title)
	}
	// Callers key on Suggestions for anything needing a follow-up choice,
	// so generic titles surface their specializations there too.
	result.Suggestions = result.Specializations
	return result, nil
}
