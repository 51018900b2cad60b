package anonymize

import (
	"strings"
	"testing"
)

func TestScrubReplacesPII(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Jane Candidate",
		"jane.candidate+jobs@example.com",
		"(415) 555-0123",
		"415.555.0124",
		"+1 415-555-0125",
		"123-45-6789",
		"456 Market Street, Suite 300",
		"linkedin.com/in/jane-candidate",
		"https://github.com/janec",
		"EXPERIENCE",
		"• Increased sales by 25% using HubSpot",
	}, "\n")

	got := Scrub(input)

	for _, placeholder := range []string{"[EMAIL]", "[PHONE]", "[SSN]", "[ADDRESS]", "[LINKEDIN]", "[GITHUB]"} {
		if !strings.Contains(got, placeholder) {
			t.Fatalf("expected %s in output:\n%s", placeholder, got)
		}
	}
	for _, leaked := range []string{"jane.candidate", "555-0123", "555.0124", "555-0125", "123-45-6789", "Market Street", "linkedin.com", "github.com"} {
		if strings.Contains(got, leaked) {
			t.Fatalf("PII %q leaked into output:\n%s", leaked, got)
		}
	}
}

func TestScrubPreservesAchievementContent(t *testing.T) {
	t.Parallel()

	input := "• Increased sales by 25%\n• Managed a team of 10 engineers\n• Cut costs by $2M"
	got := Scrub(input)
	if got != input {
		t.Fatalf("achievement content altered:\ngot  %q\nwant %q", got, input)
	}
}

func TestScrubIsOneWayAndStable(t *testing.T) {
	t.Parallel()

	input := "Contact: jane@example.com or 415-555-0123"
	once := Scrub(input)
	twice := Scrub(once)
	if once != twice {
		t.Fatalf("expected Scrub to be stable: %q vs %q", once, twice)
	}
}
