package generation_test

import (
	"strings"
	"testing"

	"github.com/inkwell-labs/inkwell/internal/generation"
	"github.com/inkwell-labs/inkwell/internal/templates"
)

func captionTemplate() *templates.Template {
	return &templates.Template{
		ID:                "engaging-caption",
		Name:              "Engaging Caption",
		Type:              templates.KindCaption,
		Tone:              "casual",
		GlobalRules:       []string{},
		PromptInstruction: "Write an engaging caption about: {{inputText}}",
		Structure:         "Hook → Body → Call To Action",
	}
}

func TestCompileSubstitutesPlaceholder(t *testing.T) {
	prompt := generation.Compile(captionTemplate(), "our new coffee blend", generation.Context{
		Kind:     generation.KindCaption,
		Platform: "Instagram",
		Tone:     "Casual",
	})

	if !strings.Contains(prompt, "Write an engaging caption about: our new coffee blend") {
		t.Errorf("placeholder not substituted:\n%s", prompt)
	}
	if strings.Contains(prompt, generation.Placeholder) {
		t.Errorf("placeholder survives compilation:\n%s", prompt)
	}
	if strings.Contains(prompt, "[Subject Content]:") {
		t.Errorf("append label should not be present when placeholder exists:\n%s", prompt)
	}
}

func TestCompileSubstitutesEveryOccurrence(t *testing.T) {
	tpl := captionTemplate()
	tpl.PromptInstruction = "First: {{inputText}}. Again: {{inputText}}."

	prompt := generation.Compile(tpl, "X", generation.Context{Kind: generation.KindCaption})

	if strings.Contains(prompt, generation.Placeholder) {
		t.Errorf("unreplaced placeholder remains:\n%s", prompt)
	}
	if !strings.Contains(prompt, "First: X. Again: X.") {
		t.Errorf("both occurrences should be replaced:\n%s", prompt)
	}
}

func TestCompileAppendsInputWithoutPlaceholder(t *testing.T) {
	tests := []struct {
		name      string
		kind      generation.Kind
		wantLabel string
	}{
		{"caption appends subject content", generation.KindCaption, "[Subject Content]:"},
		{"letter appends letter details", generation.KindLetter, "[Letter Details]:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := captionTemplate()
			tpl.PromptInstruction = "Write something great."

			prompt := generation.Compile(tpl, "the raw input", generation.Context{Kind: tt.kind})

			if !strings.Contains(prompt, tt.wantLabel+"\nthe raw input") {
				t.Errorf("input should be appended under %s:\n%s", tt.wantLabel, prompt)
			}
		})
	}
}

func TestCompileHeaderCaption(t *testing.T) {
	prompt := generation.Compile(captionTemplate(), "input", generation.Context{
		Kind:     generation.KindCaption,
		Platform: "LinkedIn",
		Tone:     "Professional",
	})

	wantLines := []string{
		"[Instruction: Generate content strictly following the provided blueprint.]",
		"[Context: Platform=linkedin, Tone=professional]",
		"[Output Structure: Hook → Body → Call To Action]",
		"[Blueprint/Logic]:",
		"[Direct Output Only]:",
	}

	for _, line := range wantLines {
		if !strings.Contains(prompt, line) {
			t.Errorf("missing line %q in:\n%s", line, prompt)
		}
	}
}

func TestCompileHeaderLetter(t *testing.T) {
	tpl := captionTemplate()
	tpl.Type = templates.KindLetter
	tpl.Structure = ""

	prompt := generation.Compile(tpl, "input", generation.Context{Kind: generation.KindLetter})

	wantLines := []string{
		"[Instruction: Generate a professional letter strictly following the provided blueprint.]",
		"[Context: Document Type=Letter, Tone=formal]",
		"[Output Structure: Standard Letter Format]",
	}

	for _, line := range wantLines {
		if !strings.Contains(prompt, line) {
			t.Errorf("missing line %q in:\n%s", line, prompt)
		}
	}
}

func TestCompileContextDefaults(t *testing.T) {
	tpl := captionTemplate()
	tpl.Structure = ""

	prompt := generation.Compile(tpl, "input", generation.Context{Kind: generation.KindCaption})

	if !strings.Contains(prompt, "[Context: Platform=general, Tone=professional]") {
		t.Errorf("caption defaults missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[Output Structure: Standard]") {
		t.Errorf("structure fallback missing:\n%s", prompt)
	}
}

func TestCompileDeterministic(t *testing.T) {
	ctx := generation.Context{Kind: generation.KindCaption, Platform: "twitter", Tone: "witty"}

	first := generation.Compile(captionTemplate(), "same input", ctx)
	second := generation.Compile(captionTemplate(), "same input", ctx)

	if first != second {
		t.Error("compilation should be deterministic for identical inputs")
	}
}

func TestCompileSegmentOrder(t *testing.T) {
	prompt := generation.Compile(captionTemplate(), "input", generation.Context{Kind: generation.KindCaption})

	header := strings.Index(prompt, "[Instruction:")
	blueprint := strings.Index(prompt, "[Blueprint/Logic]:")
	directive := strings.Index(prompt, "[Direct Output Only]:")

	if !(header < blueprint && blueprint < directive) {
		t.Errorf("segment order wrong: header=%d blueprint=%d directive=%d", header, blueprint, directive)
	}
	if !strings.HasSuffix(prompt, "[Direct Output Only]:") {
		t.Errorf("prompt should end with the output directive:\n%s", prompt)
	}
}
