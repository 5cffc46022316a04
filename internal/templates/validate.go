package templates

import "strings"

// Phrases that disqualify an instruction as a prompt-injection attempt.
// Matching is case-insensitive.
var bannedPhrases = []string{
	"ignore all previous",
	"system override",
}

// Validate performs the structural and content checks applied before a
// template is persisted. It is advisory and pre-write only: templates are
// not re-validated on generation, so an invalid record already in storage
// can still be used.
func Validate(t Template) error {
	required := []struct {
		field string
		ok    bool
	}{
		{"id", t.ID != ""},
		{"name", t.Name != ""},
		{"type", t.Type != ""},
		{"tone", t.Tone != ""},
		{"layout", t.Layout != nil},
		{"global_rules", t.GlobalRules != nil},
		{"prompt_instruction", t.PromptInstruction != ""},
	}

	for _, r := range required {
		if !r.ok {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}

	for _, section := range t.Layout {
		if section.ID == "" || section.SectionType == "" || section.ContentSource == "" {
			return &ValidationError{Field: "layout", Message: "Invalid section in layout"}
		}
	}

	instruction := strings.ToLower(t.PromptInstruction)
	for _, phrase := range bannedPhrases {
		if strings.Contains(instruction, phrase) {
			return &ValidationError{
				Field:   "prompt_instruction",
				Message: "Unsafe prompt instruction detected",
			}
		}
	}

	return nil
}
