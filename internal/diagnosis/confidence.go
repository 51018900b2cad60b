package diagnosis

// CompletenessInput is what the pipeline actually knows about its inputs.
type CompletenessInput struct {
	ExtractionConfidence int
	HasJobDescription    bool
	HasExperience        bool
}

const lowConfidenceThreshold = 60

const uncertaintyNote = "Confidence is reduced because the available input data was limited."

// Completeness scores how much signal the pipeline had to work with.
// Extraction quality carries most of the weight; a job description and a
// detected experience section add the rest.
func Completeness(in CompletenessInput) int {
	score := in.ExtractionConfidence * 60 / 100
	if in.HasJobDescription {
		score += 20
	}
	if in.HasExperience {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Correlate overwrites the model's self-reported data completeness with the
// pipeline's own measurement and caps overall confidence at that ceiling.
// The model never gets to claim more certainty than its inputs support.
func Correlate(result *DiagnosisResult, in CompletenessInput) {
	completeness := Completeness(in)
	result.DataCompleteness = completeness

	if result.OverallConfidence > completeness {
		result.OverallConfidence = completeness
	}

	if result.OverallConfidence < lowConfidenceThreshold {
		if result.ConfidenceExplanation != "" {
			result.ConfidenceExplanation += " "
		}
		result.ConfidenceExplanation += uncertaintyNote
	}
}
