package llm

import _ "embed"

var (
	//go:embed prompts/diagnosis_v1.txt
	diagnosisPromptV1 string
)

// PromptTemplate returns the prompt template text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "diagnosis_v1":
		return diagnosisPromptV1, true
	default:
		return diagnosisPromptV1, false
	}
}
