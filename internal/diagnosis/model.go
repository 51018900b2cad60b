package diagnosis

import "time"

// Diagnosis statuses. Pending jobs move through processing and analyzing
// before reaching a terminal state.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusAnalyzing  = "analyzing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusTimeout    = "timeout"
	StatusDeleted    = "deleted"
)

// Root cause categories.
const (
	CategoryKeywordMismatch       = "keyword_mismatch"
	CategoryExperienceGap         = "experience_gap"
	CategorySkillDeficiency       = "skill_deficiency"
	CategoryFormattingIssue       = "formatting_issue"
	CategoryATSCompatibility      = "ats_compatibility"
	CategoryQuantificationMissing = "quantification_missing"
	CategoryRelevanceIssue        = "relevance_issue"
	CategoryCareerProgression     = "career_progression"
	CategoryEducationMismatch     = "education_mismatch"
	CategoryOther                 = "other"
)

// Evidence types.
const (
	EvidenceResumeSection  = "resume_section"
	EvidenceMissingKeyword = "missing_keyword"
	EvidenceFormatting     = "formatting"
	EvidenceMarketData     = "market_data"
	EvidenceComparison     = "comparison"
)

// Recommendation difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	maxRootCauses      = 5
	maxRecommendations = 3
)

// Evidence is a single supporting observation for a root cause.
type Evidence struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Citation    string `json:"citation"`
	Location    string `json:"location,omitempty"`
	Confidence  int    `json:"confidence"`
}

// RootCause is one diagnosed reason the resume is not converting.
type RootCause struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	SeverityScore int        `json:"severityScore"`
	ImpactScore   int        `json:"impactScore"`
	Priority      int        `json:"priority"`
	Evidence      []Evidence `json:"evidence"`
}

// Recommendation is an actionable fix tied to a root cause.
type Recommendation struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ImplementationSteps []string `json:"implementationSteps"`
	ExpectedImpact      int      `json:"expectedImpact"`
	Difficulty          string   `json:"difficulty"`
	TimeEstimate        string   `json:"timeEstimate,omitempty"`
	RelatedRootCause    string   `json:"relatedRootCause,omitempty"`
	Priority            int      `json:"priority"`
}

// DiagnosisResult is the schema-enforced diagnosis returned to clients.
type DiagnosisResult struct {
	OverallConfidence     int              `json:"overallConfidence"`
	ConfidenceExplanation string           `json:"confidenceExplanation"`
	IsCompetitive         bool             `json:"isCompetitive"`
	DataCompleteness      int              `json:"dataCompleteness"`
	RootCauses            []RootCause      `json:"rootCauses"`
	Recommendations       []Recommendation `json:"recommendations"`
}

// PartialResults is what survives a pipeline that never produced a
// diagnosis, kept so timeouts still return something useful.
type PartialResults struct {
	SectionTitles        []string `json:"sectionTitles,omitempty"`
	SectionCount         int      `json:"sectionCount"`
	ExtractionConfidence int      `json:"extractionConfidence"`
	Warnings             []string `json:"warnings,omitempty"`
}

// Diagnosis represents one diagnosis job for a document.
type Diagnosis struct {
	ID                string
	DocumentID        string
	SessionID         string
	Status            string
	JobTitleRaw       string
	JobTitleCanonical string
	TitleConfidence   int
	JobDescription    string
	ApplicationCount  int
	PromptVersion     string
	Model             string
	Result            *DiagnosisResult
	PartialResults    *PartialResults
	Partial           bool
	ErrorCode         string
	ErrorMessage      string
	DurationMs        int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}
