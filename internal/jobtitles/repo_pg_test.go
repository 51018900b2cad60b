package jobtitles

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetCanonical(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"canonical", "category", "seniority", "industry", "is_generic"}).
		AddRow("Software Engineer", "engineering", "Mid", "technology", false)
	mock.ExpectQuery(`SELECT canonical, category, seniority, industry, is_generic\s+FROM job_titles`).
		WithArgs("Software Engineer").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetCanonical(context.Background(), "Software Engineer")
	if err != nil {
		t.Fatalf("GetCanonical: %v", err)
	}
	if got.Title != "Software Engineer" || got.IsGeneric {
		t.Fatalf("unexpected canonical: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoFindVariationsOrdered(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"variation", "canonical", "confidence"}).
		AddRow("swe", "Software Engineer", 95).
		AddRow("swe", "Senior Software Engineer", 60)
	mock.ExpectQuery(`SELECT variation, canonical, confidence\s+FROM job_title_variations`).
		WithArgs("SWE").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.FindVariations(context.Background(), "SWE")
	if err != nil {
		t.Fatalf("FindVariations: %v", err)
	}
	if len(got) != 2 || got[0].Confidence != 95 {
		t.Fatalf("unexpected variations: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetTemplateDecodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"canonical", "required_skills", "preferred_skills", "required_keywords", "ats_keywords", "min_years", "max_years", "education",
	}).AddRow(
		"Software Engineer",
		[]byte(`["programming"]`),
		[]byte(`["testing"]`),
		[]byte(`["software"]`),
		[]byte(`["git"]`),
		2,
		6,
		[]byte(`["BS Computer Science or equivalent"]`),
	)
	mock.ExpectQuery(`FROM role_templates`).
		WithArgs("Software Engineer").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	tpl, err := repo.GetTemplate(context.Background(), "Software Engineer")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if len(tpl.RequiredSkills) != 1 || tpl.RequiredSkills[0] != "programming" {
		t.Fatalf("unexpected required skills: %v", tpl.RequiredSkills)
	}
	if tpl.MaxYears == nil || *tpl.MaxYears != 6 {
		t.Fatalf("unexpected max years: %v", tpl.MaxYears)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
