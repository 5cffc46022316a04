// Package templates implements the template domain for Inkwell.
// It provides the canonical template schema, structural validation,
// partitioned storage with system-template protection, and HTTP handlers.
package templates

import "time"

// Origin identifies which storage partition owns a template.
type Origin string

// Template origins. System templates are provisioned as seed data and
// are immutable and undeletable at runtime; user templates are fully
// mutable and deletable.
const (
	OriginSystem Origin = "system"
	OriginUser   Origin = "user"
)

// Template is a reusable generation blueprint: instruction text plus
// structure, tone, and rules describing how to transform raw input into
// generated output. The structured Layout is the source of truth; the
// flat Structure string is a derived legacy view kept for older clients.
type Template struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              Kind      `json:"type"`
	Tone              string    `json:"tone"`
	Layout            []Section `json:"layout"`
	GlobalRules       []string  `json:"global_rules"`
	PromptInstruction string    `json:"prompt_instruction"`
	Structure         string    `json:"structure,omitempty"`
	Origin            Origin    `json:"origin"`
	IsSystem          bool      `json:"is_system_template"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero"`
}

// Section is one unit of document structure within a template layout.
type Section struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Order         int      `json:"order"`
	SectionType   string   `json:"section_type"`
	ContentSource string   `json:"content_source"`
	Rules         []string `json:"rules,omitempty"`

	// UI hints, not load-bearing for generation.
	Placeholder      string `json:"placeholder,omitempty"`
	Required         bool   `json:"required,omitempty"`
	UserCustomizable bool   `json:"user_customizable,omitempty"`
}

// CreateCommand carries the data needed to create a user template.
// Every field except the flat/structured content is optional; missing
// fields receive defaults. Content and Category are legacy aliases for
// PromptInstruction and Type.
type CreateCommand struct {
	ID                string    `json:"id,omitempty"`
	Name              string    `json:"name"`
	Type              Kind      `json:"type,omitempty"`
	Category          Kind      `json:"category,omitempty"`
	Tone              string    `json:"tone"`
	Layout            []Section `json:"layout"`
	GlobalRules       []string  `json:"global_rules"`
	PromptInstruction string    `json:"prompt_instruction"`
	Content           string    `json:"content,omitempty"`
	Structure         string    `json:"structure,omitempty"`
}

// UpdateCommand carries a partial field set merged over an existing user
// template. Nil fields leave the stored value unchanged. Version, when
// supplied, must match the stored record or the update fails with
// ErrConflict.
type UpdateCommand struct {
	Name              *string   `json:"name,omitempty"`
	Type              *Kind     `json:"type,omitempty"`
	Tone              *string   `json:"tone,omitempty"`
	Layout            []Section `json:"layout,omitempty"`
	GlobalRules       []string  `json:"global_rules,omitempty"`
	PromptInstruction *string   `json:"prompt_instruction,omitempty"`
	Content           *string   `json:"content,omitempty"`
	Structure         *string   `json:"structure,omitempty"`
	Version           *int      `json:"version,omitempty"`
}
