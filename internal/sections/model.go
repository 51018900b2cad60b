package sections

// SectionType classifies a resume section by its heading.
type SectionType string

const (
	TypeContact        SectionType = "contact"
	TypeSummary        SectionType = "summary"
	TypeExperience     SectionType = "experience"
	TypeEducation      SectionType = "education"
	TypeSkills         SectionType = "skills"
	TypeProjects       SectionType = "projects"
	TypeCertifications SectionType = "certifications"
	TypeOther          SectionType = "other"
)

// Achievement is a bullet-level accomplishment with detected signals.
type Achievement struct {
	Text              string   `json:"text"`
	HasQuantification bool     `json:"hasQuantification"`
	Metrics           []string `json:"metrics"`
	ActionVerbs       []string `json:"actionVerbs"`
}

// BulletPoint is a single bullet line within a section.
type BulletPoint struct {
	Text         string        `json:"text"`
	Achievements []Achievement `json:"achievements"`
}

// Section is a contiguous span of the raw text under one heading.
type Section struct {
	Type    SectionType   `json:"type"`
	Title   string        `json:"title"`
	Start   int           `json:"start"`
	End     int           `json:"end"`
	Content string        `json:"content"`
	Bullets []BulletPoint `json:"bullets"`
}

// Result is the extractor output: sections plus a heuristic confidence
// and any warnings about input quality.
type Result struct {
	Sections   []Section `json:"sections"`
	Confidence int       `json:"confidence"`
	Warnings   []string  `json:"warnings"`
}

// HasExperience reports whether an experience section was detected.
func (r Result) HasExperience() bool {
	for _, s := range r.Sections {
		if s.Type == TypeExperience {
			return true
		}
	}
	return false
}

// Titles returns the section titles with their types, for prompt building.
func (r Result) Titles() []string {
	out := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		out = append(out, title+" ["+string(s.Type)+"]")
	}
	return out
}
