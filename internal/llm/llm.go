package llm

import (
	"context"
	"encoding/json"
)

// Client abstracts generative providers for resume diagnosis. Constructed
// once at wiring time and injected; there is no module-level singleton.
type Client interface {
	Diagnose(ctx context.Context, input DiagnoseInput) (json.RawMessage, error)
}

// DiagnoseInput captures everything the prompt builder needs. ResumeText
// must already be anonymized.
type DiagnoseInput struct {
	ResumeText       string
	SectionTitles    []string
	TargetRole       string
	RequiredSkills   []string
	PreferredSkills  []string
	RequiredKeywords []string
	ATSKeywords      []string
	JobDescription   string
	ApplicationCount int
	PromptVersion    string
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}
