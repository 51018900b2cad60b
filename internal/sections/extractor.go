package sections

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ErrUnusableText indicates extraction produced nothing usable. Callers
// treat this as a processing error, distinct from quality warnings.
var ErrUnusableText = errors.New("failed to extract text")

var (
	// Title-case heading, optionally ending with a colon ("Work Experience:").
	titleHeadingRe = regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*):?\s*$`)

	quantificationRes = []*regexp.Regexp{
		regexp.MustCompile(`\d+(?:\.\d+)?%`),
		regexp.MustCompile(`\$\d[\d,]*(?:\.\d+)?[KMBkmb]?`),
		regexp.MustCompile(`(?i)team of \d+`),
	}
)

// Ordered keyword table; first match wins.
var sectionTypeTable = []struct {
	stype SectionType
	re    *regexp.Regexp
}{
	{TypeContact, regexp.MustCompile(`(?i)contact|email|phone`)},
	{TypeSummary, regexp.MustCompile(`(?i)summary|objective|profile`)},
	{TypeExperience, regexp.MustCompile(`(?i)experience|work|employment`)},
	{TypeEducation, regexp.MustCompile(`(?i)education|academic`)},
	{TypeSkills, regexp.MustCompile(`(?i)skills|competencies`)},
	{TypeProjects, regexp.MustCompile(`(?i)projects|portfolio`)},
	{TypeCertifications, regexp.MustCompile(`(?i)certifications|licenses`)},
}

var actionVerbs = []string{
	"developed", "implemented", "led", "optimized", "created", "increased",
	"reduced", "managed", "designed", "built", "launched", "improved",
	"delivered", "automated", "migrated", "mentored", "negotiated",
	"streamlined", "architected", "spearheaded",
}

type headingCandidate struct {
	start int
	end   int
	text  string
}

// Extract converts raw extracted text into classified sections with
// bullets and achievements, plus a heuristic confidence score.
func Extract(text string) (Result, error) {
	if len(strings.TrimSpace(text)) < 5 {
		return Result{}, ErrUnusableText
	}

	headings := findHeadings(text)
	secs := buildSections(text, headings)

	result := Result{Sections: secs}
	result.Confidence = scoreConfidence(text, result)
	result.Warnings = collectWarnings(text)
	return result, nil
}

func findHeadings(text string) []headingCandidate {
	var candidates []headingCandidate
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimRight(line, "\n")
		stripped := strings.TrimSpace(trimmed)
		if stripped == "" {
			continue
		}

		if titleHeadingRe.MatchString(stripped) || isAllCapsHeading(stripped) {
			candidates = append(candidates, headingCandidate{
				start: lineStart,
				end:   lineStart + len(line),
				text:  strings.TrimSuffix(stripped, ":"),
			})
		}
	}

	// Dedup by position, sort by offset.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].start < candidates[j].start })
	deduped := candidates[:0]
	lastStart := -1
	for _, c := range candidates {
		if c.start == lastStart {
			continue
		}
		deduped = append(deduped, c)
		lastStart = c.start
	}
	return deduped
}

func isAllCapsHeading(line string) bool {
	if len(line) < 4 || len(line) > 49 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case r == ' ' || r == '&' || r == '/' || r == '-':
		default:
			return false
		}
	}
	return hasLetter
}

func buildSections(text string, headings []headingCandidate) []Section {
	var secs []Section

	if len(headings) == 0 {
		secs = append(secs, makeSection(text, "", 0, len(text)))
		return secs
	}

	// Text before the first heading, if any, is an untitled span.
	if lead := text[:headings[0].start]; strings.TrimSpace(lead) != "" {
		secs = append(secs, makeSection(text, "", 0, headings[0].start))
	}

	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		secs = append(secs, makeSection(text, h.text, h.end, end))
	}
	return secs
}

func makeSection(text, title string, start, end int) Section {
	content := text[start:end]
	return Section{
		Type:    classify(title),
		Title:   title,
		Start:   start,
		End:     end,
		Content: content,
		Bullets: extractBullets(content),
	}
}

func classify(title string) SectionType {
	if title == "" {
		return TypeOther
	}
	for _, entry := range sectionTypeTable {
		if entry.re.MatchString(title) {
			return entry.stype
		}
	}
	return TypeOther
}

func extractBullets(content string) []BulletPoint {
	var bullets []BulletPoint
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		var text string
		switch {
		case strings.HasPrefix(trimmed, "•"):
			text = strings.TrimSpace(strings.TrimPrefix(trimmed, "•"))
		case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "*"):
			// No space required after the marker; "-Shipped X" is still a
			// bullet. Marker-only separator lines collapse to nothing and
			// are skipped below.
			text = strings.TrimSpace(strings.TrimLeft(trimmed, "-*"))
		default:
			continue
		}
		if text == "" {
			continue
		}
		bullets = append(bullets, BulletPoint{
			Text:         text,
			Achievements: detectAchievements(text),
		})
	}
	return bullets
}

func detectAchievements(bulletText string) []Achievement {
	lower := strings.ToLower(bulletText)

	var verbs []string
	for _, verb := range actionVerbs {
		if containsWord(lower, verb) {
			verbs = append(verbs, verb)
		}
	}

	var metrics []string
	for _, re := range quantificationRes {
		metrics = append(metrics, re.FindAllString(bulletText, -1)...)
	}

	if len(verbs) == 0 && len(metrics) == 0 {
		return nil
	}
	return []Achievement{{
		Text:              bulletText,
		HasQuantification: len(metrics) > 0,
		Metrics:           metrics,
		ActionVerbs:       verbs,
	}}
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !unicode.IsLetter(rune(haystack[start-1]))
		afterOK := end == len(haystack) || !unicode.IsLetter(rune(haystack[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func scoreConfidence(text string, r Result) int {
	score := 50
	if len(text) < 100 {
		score -= 10
	}
	if len(text) > 500 {
		score += 20
	}
	if len(r.Sections) >= 4 {
		score += 20
	}
	if r.HasExperience() {
		score += 10
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func collectWarnings(text string) []string {
	var warnings []string
	if len(text) < 200 {
		warnings = append(warnings, "extracted text is very short, may be missing content")
	}
	if garbledRatio(text) > 0.1 {
		warnings = append(warnings, "some text may not have been extracted correctly")
	}
	return warnings
}

func garbledRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	var bad int
	var total int
	for _, r := range text {
		total++
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if !unicode.IsPrint(r) || r == unicode.ReplacementChar {
			bad++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(bad) / float64(total)
}
