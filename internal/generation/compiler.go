package generation

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/inkwell/internal/templates"
)

// Placeholder is the literal token in template instruction text replaced
// with the caller's input during compilation.
const Placeholder = "{{inputText}}"

// Context carries the per-request parameters merged into a compiled prompt.
type Context struct {
	Kind     Kind
	Platform string
	Tone     string
}

// Compile merges a template with the caller's input text and context into
// a single instruction prompt. Pure function: no side effects, and
// deterministic for identical inputs. Callers must reject empty input
// before compiling; the compiler assumes non-empty input.
func Compile(tpl *templates.Template, input string, ctx Context) string {
	doc := &promptDoc{}

	doc.add("header", headerLines(tpl, ctx))
	doc.add("blueprint", "[Blueprint/Logic]:\n"+mergeInput(tpl.PromptInstruction, input, ctx.Kind))
	doc.add("directive", "[Direct Output Only]:")

	return doc.render()
}

func headerLines(tpl *templates.Template, ctx Context) string {
	lines := []string{
		instructionLine(ctx.Kind),
		contextLine(ctx),
		structureLine(tpl.Structure, ctx.Kind),
	}
	return strings.Join(lines, "\n")
}

func instructionLine(kind Kind) string {
	if kind == KindLetter {
		return "[Instruction: Generate a professional letter strictly following the provided blueprint.]"
	}
	return "[Instruction: Generate content strictly following the provided blueprint.]"
}

// contextLine normalizes platform and tone to lower case, applying
// kind-specific defaults. Unknown values pass through unchanged; they
// degrade later to generic platform instructions rather than failing.
func contextLine(ctx Context) string {
	tone := strings.ToLower(strings.TrimSpace(ctx.Tone))

	if ctx.Kind == KindLetter {
		if tone == "" {
			tone = "formal"
		}
		return fmt.Sprintf("[Context: Document Type=Letter, Tone=%s]", tone)
	}

	platform := strings.ToLower(strings.TrimSpace(ctx.Platform))
	if platform == "" {
		platform = "general"
	}
	if tone == "" {
		tone = "professional"
	}
	return fmt.Sprintf("[Context: Platform=%s, Tone=%s]", platform, tone)
}

func structureLine(structure string, kind Kind) string {
	if structure == "" {
		if kind == KindLetter {
			structure = "Standard Letter Format"
		} else {
			structure = "Standard"
		}
	}
	return fmt.Sprintf("[Output Structure: %s]", structure)
}

// mergeInput substitutes every placeholder occurrence with the raw input.
// When the instruction carries no placeholder the input is appended under
// a labeled section so content is never silently dropped.
func mergeInput(instruction, input string, kind Kind) string {
	if strings.Contains(instruction, Placeholder) {
		return strings.ReplaceAll(instruction, Placeholder, input)
	}

	label := "[Subject Content]:"
	if kind == KindLetter {
		label = "[Letter Details]:"
	}
	return instruction + "\n\n" + label + "\n" + input
}
