package generation

import (
	"fmt"
	"log/slog"

	"github.com/inkwell-labs/inkwell/pkg/formatting"
)

// Analysis is the content metadata extracted ahead of templateless caption
// generation.
type Analysis struct {
	Topics      []string `json:"topics"`
	Highlights  []string `json:"highlights"`
	Intent      string   `json:"intent"`
	ContentType string   `json:"contentType"`
}

// BuildAnalysisPrompt returns the instruction asking the model to extract
// caption-relevant metadata from user content as a JSON object.
func BuildAnalysisPrompt(content string) string {
	return fmt.Sprintf(`Analyze the following user content and extract key metadata for social media caption generation.

User Content:
%q

Return ONLY a JSON object with the following fields:
- "topics": Array of 3-5 key topics or keywords.
- "highlights": Array of 2-3 most important phrases/points.
- "intent": The primary goal (informational, promotional, conversational, inspirational, etc.).
- "contentType": The nature of the content (blog post summary, personal story, product announcement, etc.).

JSON Output:`, content)
}

// ParseAnalysis extracts an Analysis from model output, tolerating fencing
// and surrounding prose. Unparseable output degrades to a generic analysis
// so caption generation proceeds without the metadata.
func ParseAnalysis(text string, logger *slog.Logger) Analysis {
	analysis, err := formatting.Parse[Analysis](text)
	if err != nil {
		logger.Warn("content analysis unparseable, using generic analysis", "error", err)
		return Analysis{
			Topics:      []string{},
			Highlights:  []string{},
			Intent:      "general",
			ContentType: "social post",
		}
	}
	return analysis
}
