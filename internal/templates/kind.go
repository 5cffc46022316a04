package templates

import (
	"encoding/json"
	"slices"
)

// Kind discriminates which generator a template targets.
type Kind string

// Valid template kinds.
const (
	KindCaption Kind = "caption"
	KindLetter  Kind = "letter"
	KindReport  Kind = "report"
	KindEssay   Kind = "essay"
	KindEmail   Kind = "email"
	KindResume  Kind = "resume"
	KindCustom  Kind = "custom"
)

var kinds = []Kind{
	KindCaption,
	KindLetter,
	KindReport,
	KindEssay,
	KindEmail,
	KindResume,
	KindCustom,
}

// Kinds returns the list of valid template kinds.
func Kinds() []Kind {
	return kinds
}

// UnmarshalJSON validates that the decoded string is a known kind value.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Kind(raw)
	if !slices.Contains(kinds, v) {
		return ErrInvalidKind
	}
	*k = v
	return nil
}

// ParseKind validates a string as a known template kind.
// Returns ErrInvalidKind if the value is not recognized.
func ParseKind(s string) (Kind, error) {
	v := Kind(s)
	if !slices.Contains(kinds, v) {
		return "", ErrInvalidKind
	}
	return v, nil
}
