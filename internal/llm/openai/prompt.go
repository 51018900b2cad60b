package openai

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"resume-diagnosis/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptStrict  = "You are a resume diagnosis engine. Respond with JSON only. Output must match the schema exactly."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."

	// Character budgets applied before the prompt is sent.
	resumeCharBudget = 6000
	jdCharBudget     = 2000

	truncationMarker = "\n[... truncated ...]"
)

// BuildPrompt creates the chat messages for a diagnosis request.
func BuildPrompt(input llm.DiagnoseInput, model string) []Message {
	developer := resolvePromptTemplate(input.PromptVersion, input.JobDescription, model)
	return []Message{
		{Role: "system", Content: systemPromptStrict},
		{Role: "developer", Content: developer},
		{Role: "user", Content: buildUserPrompt(input)},
	}
}

func buildFixPrompt(promptVersion string, jobDescription string, model string, raw []byte) []Message {
	developer := resolvePromptTemplate(promptVersion, jobDescription, model)
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "developer", Content: developer},
		{Role: "user", Content: fixUserPrompt(raw)},
	}
}

func resolvePromptTemplate(promptVersion string, jobDescription string, model string) string {
	version := strings.TrimSpace(promptVersion)
	template, ok := llm.PromptTemplate(version)
	if !ok {
		log.Printf("unknown prompt version %q, defaulting to diagnosis_v1", version)
		version = "diagnosis_v1"
	}

	jobDescriptionProvided := "true"
	if strings.TrimSpace(jobDescription) == "" {
		jobDescriptionProvided = "false"
	}

	replacer := strings.NewReplacer(
		"{{PROMPT_VERSION}}", version,
		"{{MODEL}}", model,
		"{{JOB_DESCRIPTION_PROVIDED}}", jobDescriptionProvided,
	)
	return replacer.Replace(template)
}

func buildUserPrompt(input llm.DiagnoseInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target role: %s\n", input.TargetRole)
	if input.ApplicationCount > 0 {
		fmt.Fprintf(&b, "Applications submitted without interviews: %d\n", input.ApplicationCount)
	}
	if len(input.SectionTitles) > 0 {
		fmt.Fprintf(&b, "Detected resume sections: %s\n", strings.Join(input.SectionTitles, "; "))
	}
	if len(input.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills for role: %s\n", strings.Join(input.RequiredSkills, ", "))
	}
	if len(input.PreferredSkills) > 0 {
		fmt.Fprintf(&b, "Preferred skills for role: %s\n", strings.Join(input.PreferredSkills, ", "))
	}
	if len(input.RequiredKeywords) > 0 {
		fmt.Fprintf(&b, "Required keywords: %s\n", strings.Join(input.RequiredKeywords, ", "))
	}
	if len(input.ATSKeywords) > 0 {
		fmt.Fprintf(&b, "ATS keywords: %s\n", strings.Join(input.ATSKeywords, ", "))
	}

	fmt.Fprintf(&b, "\nResume text (anonymized):\n%s\n", truncate(input.ResumeText, resumeCharBudget))

	jd := strings.TrimSpace(input.JobDescription)
	if jd == "" {
		jd = "N/A"
	} else {
		jd = truncate(jd, jdCharBudget)
	}
	fmt.Fprintf(&b, "\nJob description:\n%s", jd)

	return b.String()
}

func fixUserPrompt(raw []byte) string {
	return fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))
}

func truncate(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	// Back up to a rune boundary so a multi-byte character is never split.
	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}
