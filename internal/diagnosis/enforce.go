package diagnosis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Loose intermediate shapes. Everything numeric is float64 and everything
// optional so a sloppy model response still parses; enforcement rebuilds
// the strict result from these.
type looseResult struct {
	OverallConfidence     float64     `json:"overallConfidence"`
	ConfidenceExplanation string      `json:"confidenceExplanation"`
	IsCompetitive         bool        `json:"isCompetitive"`
	DataCompleteness      float64     `json:"dataCompleteness"`
	RootCauses            []looseRoot `json:"rootCauses"`
	Recommendations       []looseRec  `json:"recommendations"`
}

type looseRoot struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	SeverityScore float64         `json:"severityScore"`
	ImpactScore   float64         `json:"impactScore"`
	Evidence      []looseEvidence `json:"evidence"`
}

type looseEvidence struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Citation    string  `json:"citation"`
	Location    string  `json:"location"`
	Confidence  float64 `json:"confidence"`
}

type looseRec struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ImplementationSteps []string `json:"implementationSteps"`
	ExpectedImpact      float64  `json:"expectedImpact"`
	Difficulty          string   `json:"difficulty"`
	TimeEstimate        string   `json:"timeEstimate"`
	RelatedRootCause    string   `json:"relatedRootCause"`
}

var validCategories = map[string]bool{
	CategoryKeywordMismatch:       true,
	CategoryExperienceGap:         true,
	CategorySkillDeficiency:       true,
	CategoryFormattingIssue:       true,
	CategoryATSCompatibility:      true,
	CategoryQuantificationMissing: true,
	CategoryRelevanceIssue:        true,
	CategoryCareerProgression:     true,
	CategoryEducationMismatch:     true,
	CategoryOther:                 true,
}

var validEvidenceTypes = map[string]bool{
	EvidenceResumeSection:  true,
	EvidenceMissingKeyword: true,
	EvidenceFormatting:     true,
	EvidenceMarketData:     true,
	EvidenceComparison:     true,
}

var validDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// EnforceSchema rebuilds a strict DiagnosisResult from a raw model
// response. It only fails on unparsable JSON; every schema violation is
// repaired by construction: unknown enums are coerced, scores clamped,
// fabricated citations discarded, causes without evidence dropped before
// the cap, and dense priorities assigned in the generator's order.
//
// resumeText is the anonymized text the model was shown. resume_section
// and formatting evidence must quote it verbatim; citations that are not
// substrings are discarded so fabricated quotes never reach a stored
// result. missing_keyword citations describe text that is absent, so
// they carry a derivation note instead of a quote and are not checked,
// as are market_data and comparison citations, which reference external
// sources.
func EnforceSchema(raw json.RawMessage, resumeText string) (DiagnosisResult, error) {
	var loose looseResult
	if err := json.Unmarshal(raw, &loose); err != nil {
		return DiagnosisResult{}, fmt.Errorf("diagnosis response parse: %w", err)
	}

	result := DiagnosisResult{
		OverallConfidence:     clampInt(loose.OverallConfidence, 0, 100),
		ConfidenceExplanation: strings.TrimSpace(loose.ConfidenceExplanation),
		IsCompetitive:         loose.IsCompetitive,
		DataCompleteness:      clampInt(loose.DataCompleteness, 0, 100),
	}

	normResume := normalizeCitationText(resumeText)

	for _, cause := range loose.RootCauses {
		evidence := buildEvidence(cause.Evidence, normResume)
		if len(evidence) == 0 {
			continue
		}
		if len(result.RootCauses) == maxRootCauses {
			break
		}
		result.RootCauses = append(result.RootCauses, RootCause{
			Title:         strings.TrimSpace(cause.Title),
			Description:   strings.TrimSpace(cause.Description),
			Category:      coerceEnum(cause.Category, validCategories, CategoryOther),
			SeverityScore: clampInt(cause.SeverityScore, 1, 10),
			ImpactScore:   clampInt(cause.ImpactScore, 1, 10),
			Priority:      len(result.RootCauses) + 1,
			Evidence:      evidence,
		})
	}

	for _, rec := range loose.Recommendations {
		if strings.TrimSpace(rec.Title) == "" && strings.TrimSpace(rec.Description) == "" {
			continue
		}
		if len(result.Recommendations) == maxRecommendations {
			break
		}
		result.Recommendations = append(result.Recommendations, Recommendation{
			Title:               strings.TrimSpace(rec.Title),
			Description:         strings.TrimSpace(rec.Description),
			ImplementationSteps: trimStrings(rec.ImplementationSteps),
			ExpectedImpact:      clampInt(rec.ExpectedImpact, 1, 10),
			Difficulty:          coerceEnum(rec.Difficulty, validDifficulties, DifficultyMedium),
			TimeEstimate:        strings.TrimSpace(rec.TimeEstimate),
			RelatedRootCause:    strings.TrimSpace(rec.RelatedRootCause),
			Priority:            len(result.Recommendations) + 1,
		})
	}

	return result, nil
}

func buildEvidence(items []looseEvidence, normResume string) []Evidence {
	var out []Evidence
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" && strings.TrimSpace(item.Citation) == "" {
			continue
		}
		etype := coerceEnum(item.Type, validEvidenceTypes, EvidenceResumeSection)
		citation := strings.TrimSpace(item.Citation)
		if citation != "" && !citationSupported(etype, citation, normResume) {
			continue
		}
		out = append(out, Evidence{
			Type:        etype,
			Description: strings.TrimSpace(item.Description),
			Citation:    citation,
			Location:    strings.TrimSpace(item.Location),
			Confidence:  clampInt(item.Confidence, 0, 100),
		})
	}
	return out
}

// citationSupported verifies verbatim-quote evidence against the resume
// the model was shown. Comparison is case- and whitespace-insensitive so
// line wrapping in the extracted text does not reject honest quotes.
func citationSupported(etype, citation, normResume string) bool {
	switch etype {
	case EvidenceResumeSection, EvidenceFormatting:
	default:
		return true
	}
	if normResume == "" {
		return true
	}
	return strings.Contains(normResume, normalizeCitationText(citation))
}

func normalizeCitationText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func coerceEnum(value string, valid map[string]bool, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if valid[normalized] {
		return normalized
	}
	return fallback
}

func clampInt(value float64, min, max int) int {
	v := int(value)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func trimStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
