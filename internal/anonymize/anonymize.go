package anonymize

import "regexp"

// Replacement patterns applied in a fixed order. Conservative by design:
// only identity-bearing substrings are rewritten, never skill or
// achievement content.
var replacements = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
	{regexp.MustCompile(`(?:\+1[\s.\-]?)?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]?\d{4}\b`), "[PHONE]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{regexp.MustCompile(`(?im)^\s*\d+\s+[A-Za-z0-9 .]+\s(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way)\.?\b.*$`), "[ADDRESS]"},
	{regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%]+/?`), "[LINKEDIN]"},
	{regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9\-_%]+/?`), "[GITHUB]"},
}

// Scrub replaces identity-bearing substrings with bracketed placeholders.
// The transform is one-way; there is no de-anonymization step.
func Scrub(text string) string {
	for _, r := range replacements {
		text = r.pattern.ReplaceAllString(text, r.placeholder)
	}
	return text
}
