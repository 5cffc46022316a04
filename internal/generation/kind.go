// Package generation implements prompt compilation and the generation
// endpoints. Compilation is pure and deterministic: the same template,
// input, and context always produce the same compiled prompt.
package generation

// Kind selects which document generator a request targets. It drives the
// instruction header, context defaults, and fallback structure used
// during compilation.
type Kind string

// Supported document kinds.
const (
	KindCaption Kind = "caption"
	KindLetter  Kind = "letter"
)
