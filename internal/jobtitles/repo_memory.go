package jobtitles

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo implements Repo in memory with a built-in seed, used when no
// database is configured (dev mode) and by tests.
type MemoryRepo struct {
	mu         sync.RWMutex
	titles     map[string]CanonicalJobTitle // key: lowercased canonical
	variations map[string][]Variation       // key: lowercased variation
	templates  map[string]RoleTemplate      // key: canonical
}

// NewMemoryRepo creates a memory repo seeded with the default taxonomy.
func NewMemoryRepo() *MemoryRepo {
	r := &MemoryRepo{
		titles:     make(map[string]CanonicalJobTitle),
		variations: make(map[string][]Variation),
		templates:  make(map[string]RoleTemplate),
	}
	for _, t := range seedTitles {
		r.titles[strings.ToLower(t.Title)] = t
	}
	for _, v := range seedVariations {
		key := strings.ToLower(v.Variation)
		r.variations[key] = append(r.variations[key], v)
	}
	for key := range r.variations {
		vs := r.variations[key]
		sort.SliceStable(vs, func(i, j int) bool { return vs[i].Confidence > vs[j].Confidence })
		r.variations[key] = vs
	}
	for _, tpl := range seedTemplates {
		r.templates[tpl.Canonical] = tpl
	}
	return r
}

// AddVariation registers an extra variation, used by tests.
func (r *MemoryRepo) AddVariation(v Variation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(v.Variation)
	r.variations[key] = append(r.variations[key], v)
	vs := r.variations[key]
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Confidence > vs[j].Confidence })
	r.variations[key] = vs
}

func (r *MemoryRepo) GetCanonical(ctx context.Context, title string) (CanonicalJobTitle, error) {
	if err := ctx.Err(); err != nil {
		return CanonicalJobTitle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.titles[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return CanonicalJobTitle{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) FindVariations(ctx context.Context, variation string) ([]Variation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	vs := r.variations[strings.ToLower(strings.TrimSpace(variation))]
	out := make([]Variation, len(vs))
	copy(out, vs)
	return out, nil
}

func (r *MemoryRepo) ListByCategory(ctx context.Context, category string) ([]CanonicalJobTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []CanonicalJobTitle
	for _, t := range r.titles {
		if t.Category == category && !t.IsGeneric {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *MemoryRepo) SearchByKeyword(ctx context.Context, text string) ([]CanonicalJobTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := splitWords(text)
	if len(words) == 0 {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []CanonicalJobTitle
	for _, t := range r.titles {
		if t.IsGeneric {
			continue
		}
		lower := strings.ToLower(t.Title)
		for _, word := range words {
			if strings.Contains(lower, word) {
				if _, ok := seen[t.Title]; !ok {
					seen[t.Title] = struct{}{}
					out = append(out, t)
				}
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *MemoryRepo) GetTemplate(ctx context.Context, canonical string) (RoleTemplate, error) {
	if err := ctx.Err(); err != nil {
		return RoleTemplate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[canonical]
	if !ok {
		return RoleTemplate{}, ErrNotFound
	}
	return tpl, nil
}

var _ Repo = (*MemoryRepo)(nil)
