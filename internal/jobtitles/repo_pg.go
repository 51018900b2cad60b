package jobtitles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetCanonical looks up a canonical title case-insensitively.
func (r *PGRepo) GetCanonical(ctx context.Context, title string) (CanonicalJobTitle, error) {
	const query = `
SELECT canonical, category, seniority, industry, is_generic
FROM job_titles
WHERE LOWER(canonical) = LOWER($1)
LIMIT 1`
	var out CanonicalJobTitle
	err := r.DB.QueryRowContext(ctx, query, strings.TrimSpace(title)).Scan(
		&out.Title,
		&out.Category,
		&out.Seniority,
		&out.Industry,
		&out.IsGeneric,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CanonicalJobTitle{}, ErrNotFound
		}
		return CanonicalJobTitle{}, err
	}
	return out, nil
}

// FindVariations returns variations for the lowercased input, best first.
func (r *PGRepo) FindVariations(ctx context.Context, variation string) ([]Variation, error) {
	const query = `
SELECT variation, canonical, confidence
FROM job_title_variations
WHERE variation = LOWER($1)
ORDER BY confidence DESC`
	rows, err := r.DB.QueryContext(ctx, query, strings.TrimSpace(variation))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variation
	for rows.Next() {
		var v Variation
		if err := rows.Scan(&v.Variation, &v.Canonical, &v.Confidence); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListByCategory returns non-generic titles in a category.
func (r *PGRepo) ListByCategory(ctx context.Context, category string) ([]CanonicalJobTitle, error) {
	const query = `
SELECT canonical, category, seniority, industry, is_generic
FROM job_titles
WHERE category = $1 AND is_generic = FALSE
ORDER BY canonical`
	rows, err := r.DB.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTitles(rows)
}

// SearchByKeyword returns titles whose canonical form contains any word of the input.
func (r *PGRepo) SearchByKeyword(ctx context.Context, text string) ([]CanonicalJobTitle, error) {
	words := splitWords(text)
	if len(words) == 0 {
		return nil, nil
	}
	const query = `
SELECT canonical, category, seniority, industry, is_generic
FROM job_titles
WHERE is_generic = FALSE AND LOWER(canonical) LIKE '%' || $1 || '%'
ORDER BY canonical
LIMIT 10`

	seen := make(map[string]struct{})
	var out []CanonicalJobTitle
	for _, word := range words {
		rows, err := r.DB.QueryContext(ctx, query, word)
		if err != nil {
			return nil, err
		}
		titles, err := scanTitles(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, t := range titles {
			if _, ok := seen[t.Title]; ok {
				continue
			}
			seen[t.Title] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTemplate returns the role template for a canonical title.
func (r *PGRepo) GetTemplate(ctx context.Context, canonical string) (RoleTemplate, error) {
	const query = `
SELECT canonical, required_skills, preferred_skills, required_keywords, ats_keywords, min_years, max_years, education
FROM role_templates
WHERE canonical = $1
LIMIT 1`
	var tpl RoleTemplate
	var required, preferred, keywords, ats, education []byte
	var maxYears sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, canonical).Scan(
		&tpl.Canonical,
		&required,
		&preferred,
		&keywords,
		&ats,
		&tpl.MinYears,
		&maxYears,
		&education,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RoleTemplate{}, ErrNotFound
		}
		return RoleTemplate{}, err
	}
	if maxYears.Valid {
		v := int(maxYears.Int64)
		tpl.MaxYears = &v
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{required, &tpl.RequiredSkills},
		{preferred, &tpl.PreferredSkills},
		{keywords, &tpl.RequiredKeywords},
		{ats, &tpl.ATSKeywords},
		{education, &tpl.Education},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return RoleTemplate{}, err
		}
	}
	return tpl, nil
}

func scanTitles(rows *sql.Rows) ([]CanonicalJobTitle, error) {
	var out []CanonicalJobTitle
	for rows.Next() {
		var t CanonicalJobTitle
		if err := rows.Scan(&t.Title, &t.Category, &t.Seniority, &t.Industry, &t.IsGeneric); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func splitWords(text string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	var out []string
	for _, f := range fields {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}
