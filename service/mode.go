package service

import (
	"strings"
)

// ResponseMode selects how token content is accumulated for one answer.
type ResponseMode string

const (
	// ModeIncremental surfaces every token as soon as it arrives.
	ModeIncremental ResponseMode = "incremental"
	// ModeBuffered holds tokens back until the answer is complete; used for
	// diagram source that only renders as a whole.
	ModeBuffered ResponseMode = "buffered"
)

// Prompt types understood by the askStream endpoint.
const (
	PromptTypeCode      = "code_prompt"
	PromptTypeFlowchart = "flowchart_prompt"
)

// DefaultDiagramKeywords make a question a diagram request.
var DefaultDiagramKeywords = []string{"visualize", "visualise", "flowchart", "mermaid"}

// ClassifyMode picks the mode for a question by case-insensitive substring
// match against keywords. Empty keywords fall back to DefaultDiagramKeywords.
func ClassifyMode(question string, keywords []string) ResponseMode {
	if len(keywords) == 0 {
		keywords = DefaultDiagramKeywords
	}
	lower := strings.ToLower(question)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return ModeBuffered
		}
	}
	return ModeIncremental
}

// ParseResponseMode normalizes user input, defaulting to incremental.
func ParseResponseMode(s string) ResponseMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buffered", "buffer", "flowchart", PromptTypeFlowchart:
		return ModeBuffered
	default:
		return ModeIncremental
	}
}

// PromptType is the prompt_type the server expects for this mode.
func (m ResponseMode) PromptType() string {
	if m == ModeBuffered {
		return PromptTypeFlowchart
	}
	return PromptTypeCode
}

func (m ResponseMode) String() string {
	return string(m)
}
