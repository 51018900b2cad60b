package diagnosis

import (
	"strings"
	"testing"
)

func TestCompleteness(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   CompletenessInput
		want int
	}{
		{"everything present", CompletenessInput{100, true, true}, 100},
		{"extraction only", CompletenessInput{100, false, false}, 60},
		{"weak extraction with jd", CompletenessInput{50, true, false}, 50},
		{"nothing", CompletenessInput{0, false, false}, 0},
	}
	for _, tc := range cases {
		if got := Completeness(tc.in); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCorrelateCapsConfidenceToCompleteness(t *testing.T) {
	t.Parallel()

	result := DiagnosisResult{OverallConfidence: 95, ConfidenceExplanation: "Strong signal."}
	Correlate(&result, CompletenessInput{ExtractionConfidence: 100, HasJobDescription: false, HasExperience: true})

	if result.DataCompleteness != 80 {
		t.Fatalf("expected completeness 80, got %d", result.DataCompleteness)
	}
	if result.OverallConfidence != 80 {
		t.Fatalf("expected confidence capped to 80, got %d", result.OverallConfidence)
	}
	if strings.Contains(result.ConfidenceExplanation, uncertaintyNote) {
		t.Fatalf("confidence 80 should not carry the uncertainty note")
	}
}

func TestCorrelateAppendsUncertaintyBelowThreshold(t *testing.T) {
	t.Parallel()

	result := DiagnosisResult{OverallConfidence: 90, ConfidenceExplanation: "Looks fine."}
	Correlate(&result, CompletenessInput{ExtractionConfidence: 50, HasJobDescription: false, HasExperience: false})

	if result.OverallConfidence != 30 {
		t.Fatalf("expected confidence capped to 30, got %d", result.OverallConfidence)
	}
	if !strings.HasSuffix(result.ConfidenceExplanation, uncertaintyNote) {
		t.Fatalf("expected uncertainty note appended, got %q", result.ConfidenceExplanation)
	}
	if !strings.HasPrefix(result.ConfidenceExplanation, "Looks fine.") {
		t.Fatalf("original explanation must be preserved, got %q", result.ConfidenceExplanation)
	}
}

func TestCorrelateKeepsLowerModelConfidence(t *testing.T) {
	t.Parallel()

	result := DiagnosisResult{OverallConfidence: 40}
	Correlate(&result, CompletenessInput{ExtractionConfidence: 100, HasJobDescription: true, HasExperience: true})

	if result.OverallConfidence != 40 {
		t.Fatalf("model confidence below the ceiling must stand, got %d", result.OverallConfidence)
	}
}
