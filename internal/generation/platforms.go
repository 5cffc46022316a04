package generation

import (
	"fmt"
	"strings"
)

// Per-platform style instructions for the templateless caption path.
// Unknown platforms fall back to the generic instruction.
var platformInstructions = map[string]string{
	"instagram": "- Visual and engaging\n- Uses creative line breaks\n- Focuses on emotional connection",
	"twitter":   "- Concise and punchy\n- Under 280 characters\n- High impact first sentence",
	"linkedin":  "- Professional, career-oriented, and storytelling style\n- Focuses on value and insights\n- Thought leadership tone",
	"youtube":   "- Hook-driven to increase watch time\n- Summarizes key value points\n- Includes a clear Call to Action",
	"whatsapp":  "- Conversational and direct\n- Friendly and personal\n- Easy to read and share",
}

const genericPlatformInstruction = "- Platform appropriate length and style"

// PlatformInstruction returns the style instruction block for a platform,
// matching case-insensitively with a generic fallback.
func PlatformInstruction(platform string) string {
	if instruction, ok := platformInstructions[strings.ToLower(platform)]; ok {
		return instruction
	}
	return genericPlatformInstruction
}

// sanitizeContent strips the characters that could let user content inject
// extra template directives into the compiled instruction.
var sanitizeContent = strings.NewReplacer("$", "", "{", "", "}", "")

// ComposeCaptionPrompt builds the richer templateless caption prompt from
// analyzed content metadata and per-platform style instructions.
func ComposeCaptionPrompt(content string, analysis Analysis, platform, tone string) string {
	safePlatform := strings.ToLower(strings.TrimSpace(platform))
	if safePlatform == "" {
		safePlatform = "social media"
	}
	safeTone := strings.ToLower(strings.TrimSpace(tone))
	if safeTone == "" {
		safeTone = "neutral"
	}
	safeContent := sanitizeContent.Replace(content)

	topics := joinOr(analysis.Topics, ", ", "various topics")
	intent := analysis.Intent
	if intent == "" {
		intent = "social engagement"
	}
	highlights := joinOr(analysis.Highlights, "; ", "key points")

	doc := &promptDoc{}

	doc.add("role", "You are a world-class social media strategist and copywriter.\nYour goal is to transform rough thoughts into highly personalized, platform-native captions.")
	doc.add("analysis", fmt.Sprintf(
		"Context Analysis:\n- Primary Topics: %s\n- User Intent: %s\n- Key Highlights: %s",
		topics, intent, highlights,
	))
	doc.add("context", fmt.Sprintf("Platform: %s\nVibe: %s", safePlatform, safeTone))
	doc.add("instructions", strings.Join([]string{
		"Strategic Instructions:",
		PlatformInstruction(safePlatform),
		"- BE SPECIFIC: Use the provided topics and highlights to ground the caption in reality.",
		"- AVOID REPETITION: Don't use generic openers like \"Did you know?\" or \"Check this out!\" unless specifically appropriate.",
		fmt.Sprintf("- UNIQUE VOICE: Adapt the %s vibe specifically to the %s intent.", safeTone, intent),
		fmt.Sprintf("- NO EMOJIS (unless they add significant value to the %s style).", safePlatform),
		"- Output ONLY the caption text.",
	}, "\n"))
	doc.add("content", fmt.Sprintf("Rough Content to Transform:\n%q", safeContent))

	return doc.render()
}

func joinOr(values []string, sep, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, sep)
}
