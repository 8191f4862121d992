package register

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Register is the form of address used in a German text.
type Register int

const (
	// Unknown means the text has not been classified.
	Unknown Register = iota
	// None means no second-person pronoun was found.
	None
	// Formal means only Sie forms were found.
	Formal
	// Informal means only du forms were found.
	Informal
	// Mixed means both forms were found equally often.
	Mixed
)

// String returns the machine name of the register.
func (r Register) String() string {
	switch r {
	case None:
		return "none"
	case Formal:
		return "formal"
	case Informal:
		return "informal"
	case Mixed:
		return "mixed"
	case Unknown:
		return ""
	default:
		return ""
	}
}

// Label returns the display label shown next to a translation.
func (r Register) Label() string {
	switch r {
	case Formal:
		return "Sie (您)"
	case Informal:
		return "Du (你)"
	case None:
		return "无人称"
	case Mixed:
		return "混合人称"
	case Unknown:
		return ""
	default:
		return ""
	}
}

var (
	formalForms = map[string]struct{}{
		"sie": {}, "ihnen": {}, "ihr": {}, "ihre": {}, "ihres": {}, "ihrem": {}, "ihren": {}, "ihrer": {},
	}
	informalForms = map[string]struct{}{
		"du": {}, "dich": {}, "dir": {}, "dein": {}, "deine": {}, "deines": {}, "deinem": {}, "deinen": {}, "deiner": {},
	}
)

// Counts returns how many formal and informal pronoun tokens appear in text.
// Matching is case-insensitive and on whole words only.
func Counts(text string) (formal, informal int) {
	words := strings.FieldsFunc(norm.NFC.String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})

	// Casers keep state so each call gets its own
	folder := cases.Fold()
	for _, w := range words {
		w = folder.String(w)
		if _, ok := formalForms[w]; ok {
			formal++
		}
		if _, ok := informalForms[w]; ok {
			informal++
		}
	}
	return formal, informal
}

// Detect classifies the form of address used in text. Equal nonzero counts
// of both families are Mixed.
func Detect(text string) Register {
	formal, informal := Counts(text)

	// The family with more occurrences wins
	switch {
	case formal > informal:
		return Formal
	case informal > formal:
		return Informal
	case formal == 0:
		return None
	default:
		return Mixed
	}
}
