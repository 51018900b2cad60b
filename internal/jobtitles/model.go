package jobtitles

// CanonicalJobTitle is long-lived reference data, mutated only by seeding.
type CanonicalJobTitle struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Seniority string `json:"seniorityLevel"`
	Industry  string `json:"industry"`
	IsGeneric bool   `json:"isGeneric"`
}

// Variation maps a free-text title form onto a canonical title.
type Variation struct {
	Variation  string `json:"variation"`
	Canonical  string `json:"canonical"`
	Confidence int    `json:"confidence"`
}

// RoleTemplate holds the matching profile for one canonical title.
type RoleTemplate struct {
	Canonical        string   `json:"canonical"`
	RequiredSkills   []string `json:"requiredSkills"`
	PreferredSkills  []string `json:"preferredSkills"`
	RequiredKeywords []string `json:"requiredKeywords"`
	ATSKeywords      []string `json:"atsKeywords"`
	MinYears         int      `json:"minYears"`
	MaxYears         *int     `json:"maxYears,omitempty"`
	Education        []string `json:"educationRequirements"`
}

// Result is the outcome of normalizing a free-text job title.
type Result struct {
	CanonicalTitle         *CanonicalJobTitle `json:"canonicalTitle"`
	Confidence             int                `json:"confidence"`
	RequiresSpecialization bool               `json:"requiresSpecialization"`
	Specializations        []string           `json:"specializations,omitempty"`
	Suggestions            []string           `json:"suggestions,omitempty"`
}
