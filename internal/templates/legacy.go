package templates

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Two template schemas exist in stored data: the canonical structured form
// (layout/global_rules/prompt_instruction) and a flat legacy form
// (content/structure/category). Decoding normalizes the legacy view into
// the canonical one; encoding re-derives the flat structure string so older
// readers keep working.

// wireTemplate accepts both schema variants. Kind fields are raw strings so
// that stored legacy records with unknown categories degrade to "custom"
// instead of failing the whole partition scan.
type wireTemplate struct {
	Template
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content,omitempty"`
}

var structureSeparators = regexp.MustCompile(`\s*(?:→|->|\+)\s*`)

// decodeTemplate unmarshals a stored record and normalizes it into the
// canonical schema. The owning partition decides the origin regardless of
// what the record claims; a stale origin field cannot demote a system
// template or promote a user one.
func decodeTemplate(data []byte, origin Origin) (Template, error) {
	var wire wireTemplate
	if err := json.Unmarshal(data, &wire); err != nil {
		return Template{}, fmt.Errorf("decode template: %w", err)
	}

	t := wire.Template

	kind := wire.Type
	if kind == "" {
		kind = wire.Category
	}
	if parsed, err := ParseKind(kind); err == nil {
		t.Type = parsed
	} else {
		t.Type = KindCustom
	}

	if t.PromptInstruction == "" {
		t.PromptInstruction = wire.Content
	}

	if len(t.Layout) == 0 && t.Structure != "" {
		t.Layout = ParseStructure(t.Structure)
	}

	normalizeLayout(t.Layout)

	if t.Structure == "" {
		t.Structure = DeriveStructure(t.Layout)
	}

	t.Origin = origin
	t.IsSystem = origin == OriginSystem

	return t, nil
}

func encodeTemplate(t Template) ([]byte, error) {
	t.Structure = DeriveStructure(t.Layout)
	t.IsSystem = t.Origin == OriginSystem

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode template %s: %w", t.ID, err)
	}
	return data, nil
}

// ParseStructure converts a free-text structure string ("Opening → Body →
// Conclusion", also accepting "->" and "+" separators) into an ordered
// layout of generated paragraph sections.
func ParseStructure(structure string) []Section {
	parts := structureSeparators.Split(structure, -1)

	sections := make([]Section, 0, len(parts))
	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}

		sections = append(sections, Section{
			ID:            sectionID(label),
			Label:         label,
			Order:         len(sections) + 1,
			SectionType:   "paragraph",
			ContentSource: "ai_generated",
		})
	}

	return sections
}

// DeriveStructure renders a layout back into the flat arrow-delimited view.
// Returns empty for an empty layout so records without structure stay bare.
func DeriveStructure(layout []Section) string {
	if len(layout) == 0 {
		return ""
	}

	labels := make([]string, 0, len(layout))
	for _, section := range layout {
		label := section.Label
		if label == "" {
			label = section.ID
		}
		labels = append(labels, label)
	}

	return strings.Join(labels, " → ")
}

// normalizeLayout sorts sections by declared order and renumbers them
// 1..n, restoring the unique-and-contiguous order invariant for records
// written with gaps or duplicates.
func normalizeLayout(layout []Section) {
	slices.SortStableFunc(layout, func(a, b Section) int {
		return a.Order - b.Order
	})
	for i := range layout {
		layout[i].Order = i + 1
	}
}

var sectionIDReplacer = strings.NewReplacer(" ", "-", "_", "-")

func sectionID(label string) string {
	return sectionIDReplacer.Replace(strings.ToLower(label))
}
