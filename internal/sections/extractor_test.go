package sections

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractScenarioExperienceEducation(t *testing.T) {
	t.Parallel()

	text := "EXPERIENCE\n• Increased sales by 25%\n• Attended meetings\nEDUCATION\nBS Computer Science"
	result, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}

	exp := result.Sections[0]
	if exp.Type != TypeExperience {
		t.Fatalf("expected first section experience, got %s", exp.Type)
	}
	if len(exp.Bullets) != 2 {
		t.Fatalf("expected 2 bullets, got %d", len(exp.Bullets))
	}
	if exp.Bullets[0].Text != "Increased sales by 25%" {
		t.Fatalf("unexpected bullet text: %q", exp.Bullets[0].Text)
	}
	if len(exp.Bullets[0].Achievements) != 1 {
		t.Fatalf("expected achievement on quantified bullet, got %d", len(exp.Bullets[0].Achievements))
	}
	ach := exp.Bullets[0].Achievements[0]
	if !ach.HasQuantification {
		t.Fatalf("expected hasQuantification=true")
	}
	if len(ach.Metrics) != 1 || ach.Metrics[0] != "25%" {
		t.Fatalf("expected metrics [25%%], got %v", ach.Metrics)
	}
	if len(exp.Bullets[1].Achievements) != 0 {
		t.Fatalf("expected no achievements on plain bullet")
	}

	edu := result.Sections[1]
	if edu.Type != TypeEducation {
		t.Fatalf("expected second section education, got %s", edu.Type)
	}
	if len(edu.Bullets) != 0 {
		t.Fatalf("expected no bullets in education, got %d", len(edu.Bullets))
	}
	if !strings.Contains(edu.Content, "BS Computer Science") {
		t.Fatalf("education content missing degree line: %q", edu.Content)
	}
}

func TestExtractBulletsWithoutMarkerSpace(t *testing.T) {
	t.Parallel()

	text := "EXPERIENCE\n-Shipped the billing feature\n*Maintained the CI pipeline\n---\n- Led onboarding"
	result, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	bullets := result.Sections[0].Bullets
	if len(bullets) != 3 {
		t.Fatalf("expected 3 bullets, got %d: %+v", len(bullets), bullets)
	}
	if bullets[0].Text != "Shipped the billing feature" {
		t.Fatalf("no-space dash bullet mangled: %q", bullets[0].Text)
	}
	if bullets[1].Text != "Maintained the CI pipeline" {
		t.Fatalf("no-space star bullet mangled: %q", bullets[1].Text)
	}
	if bullets[2].Text != "Led onboarding" {
		t.Fatalf("spaced bullet mangled: %q", bullets[2].Text)
	}
}

func TestExtractNoHeadingsYieldsSingleOtherSection(t *testing.T) {
	t.Parallel()

	result, err := Extract("just some plain resume text without any headings at all")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	if result.Sections[0].Type != TypeOther {
		t.Fatalf("expected other section, got %s", result.Sections[0].Type)
	}
}

func TestExtractNearEmptyIsError(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "ab"} {
		if _, err := Extract(input); !errors.Is(err, ErrUnusableText) {
			t.Fatalf("Extract(%q) expected ErrUnusableText, got %v", input, err)
		}
	}
}

func TestExtractConfidenceAdditive(t *testing.T) {
	t.Parallel()

	// Short text, no recognizable sections: 50 - 10 = 40.
	short, err := Extract("hello world this is thin")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if short.Confidence != 40 {
		t.Fatalf("expected confidence 40 for short text, got %d", short.Confidence)
	}
	if len(short.Warnings) == 0 {
		t.Fatalf("expected short-text warning")
	}

	// Long resume with 4+ sections including experience: 50+20+20+10 = 100.
	var b strings.Builder
	b.WriteString("SUMMARY\nSeasoned engineer.\n")
	b.WriteString("EXPERIENCE\n• Led migration of billing platform\n")
	b.WriteString("EDUCATION\nBS Computer Science\n")
	b.WriteString("SKILLS\nGo, SQL, AWS\n")
	b.WriteString(strings.Repeat("More detail about past roles and projects. ", 15))
	full, err := Extract(b.String())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if full.Confidence != 100 {
		t.Fatalf("expected confidence 100, got %d", full.Confidence)
	}
	if !full.HasExperience() {
		t.Fatalf("expected experience section")
	}
}

func TestExtractTitleCaseHeadingWithColon(t *testing.T) {
	t.Parallel()

	text := "Work Experience:\n• Developed internal tooling\nEducation:\nMS Statistics here"
	result, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}
	if result.Sections[0].Type != TypeExperience || result.Sections[0].Title != "Work Experience" {
		t.Fatalf("unexpected first section: %+v", result.Sections[0])
	}
	if result.Sections[1].Type != TypeEducation {
		t.Fatalf("expected education, got %s", result.Sections[1].Type)
	}
	if len(result.Sections[0].Bullets) != 1 {
		t.Fatalf("expected 1 bullet")
	}
	achs := result.Sections[0].Bullets[0].Achievements
	if len(achs) != 1 || achs[0].HasQuantification {
		t.Fatalf("expected verb-only achievement, got %+v", achs)
	}
	if len(achs[0].ActionVerbs) == 0 || achs[0].ActionVerbs[0] != "developed" {
		t.Fatalf("expected developed verb, got %v", achs[0].ActionVerbs)
	}
}
