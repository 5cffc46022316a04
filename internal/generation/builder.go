package generation

import "strings"

// segment is one named unit of a compiled prompt. Naming the segments
// keeps the merge order explicit and each piece independently testable.
type segment struct {
	name string
	text string
}

// promptDoc assembles a compiled prompt from an ordered list of named
// segments. Empty segments are skipped; the rendered document is trimmed.
type promptDoc struct {
	segments []segment
}

func (d *promptDoc) add(name, text string) *promptDoc {
	d.segments = append(d.segments, segment{name: name, text: text})
	return d
}

func (d *promptDoc) render() string {
	parts := make([]string, 0, len(d.segments))
	for _, s := range d.segments {
		if s.text == "" {
			continue
		}
		parts = append(parts, s.text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
