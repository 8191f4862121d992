package glossary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	// ErrMissingTerm is returned when either side of an entry is blank.
	ErrMissingTerm = errors.New("both chinese and german terms are required")
	// ErrIndexOutOfRange is returned when an entry index does not exist.
	ErrIndexOutOfRange = errors.New("glossary index out of range")
	// ErrNotArray is returned when an import payload is not a JSON array.
	ErrNotArray = errors.New("glossary file must contain a JSON array")
	// ErrNoValidEntries is returned when an import contains no usable entries.
	ErrNoValidEntries = errors.New("no valid glossary entries found")
	// ErrEmptyGlossary is returned when exporting an empty glossary.
	ErrEmptyGlossary = errors.New("glossary is empty")
	// ErrDuplicateTerm is returned when an update would repeat another entry's Chinese term.
	ErrDuplicateTerm = errors.New("chinese term already exists in the glossary")
)

// Entry is a fixed Chinese to German term mapping.
type Entry struct {
	Chinese string `json:"chinese"`
	German  string `json:"german"`
}

// Valid reports whether both sides of the entry are non-blank.
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Chinese) != "" && strings.TrimSpace(e.German) != ""
}

// Glossary is an ordered list of entries that is unique by Chinese term.
type Glossary []Entry

// MergeResult reports how many entries an import added or skipped.
type MergeResult struct {
	Added   int
	Skipped int
}

// Find returns the index of the entry with the given Chinese term or -1.
func (g Glossary) Find(chinese string) int {
	for i, e := range g {
		if e.Chinese == chinese {
			return i
		}
	}
	return -1
}

// Upsert adds an entry or overwrites the German side of an existing term.
func (g Glossary) Upsert(entry Entry) (Glossary, error) {
	entry = trimEntry(entry)
	if !entry.Valid() {
		return g, ErrMissingTerm
	}

	if idx := g.Find(entry.Chinese); idx >= 0 {
		out := g.clone()
		out[idx] = entry
		return out, nil
	}

	return append(g.clone(), entry), nil
}

// Update replaces the entry at index. The Chinese term may not belong to
// another entry.
func (g Glossary) Update(index int, entry Entry) (Glossary, error) {
	if index < 0 || index >= len(g) {
		return g, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	entry = trimEntry(entry)
	if !entry.Valid() {
		return g, ErrMissingTerm
	}

	if idx := g.Find(entry.Chinese); idx >= 0 && idx != index {
		return g, fmt.Errorf("%w: %s", ErrDuplicateTerm, entry.Chinese)
	}

	out := g.clone()
	out[index] = entry
	return out, nil
}

// Remove deletes the entry at index.
func (g Glossary) Remove(index int) (Glossary, error) {
	if index < 0 || index >= len(g) {
		return g, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	out := make(Glossary, 0, len(g)-1)
	out = append(out, g[:index]...)
	return append(out, g[index+1:]...), nil
}

// Merge appends the valid incoming entries whose Chinese term is not yet present.
// Existing terms are never overwritten.
func (g Glossary) Merge(incoming []Entry) (Glossary, MergeResult, error) {
	valid := make([]Entry, 0, len(incoming))
	for _, e := range incoming {
		e = trimEntry(e)
		if e.Valid() {
			valid = append(valid, e)
		}
	}

	if len(valid) == 0 {
		return g, MergeResult{}, ErrNoValidEntries
	}

	out := g.clone()
	var result MergeResult
	for _, e := range valid {
		if out.Find(e.Chinese) >= 0 {
			result.Skipped++
			continue
		}
		out = append(out, e)
		result.Added++
	}

	return out, result, nil
}

// Parse decodes an import payload. Items that are not objects with string
// fields are dropped rather than failing the whole import.
func Parse(data []byte) ([]Entry, error) {
	var raw []any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotArray, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		chinese, okCN := obj["chinese"].(string)
		german, okDE := obj["german"].(string)
		if !okCN || !okDE {
			continue
		}

		entries = append(entries, Entry{Chinese: chinese, German: german})
	}

	return entries, nil
}

// Export encodes the glossary as an indented JSON array.
func (g Glossary) Export() ([]byte, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGlossary
	}

	data, err := sonic.ConfigStd.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode glossary: %w", err)
	}
	return data, nil
}

func (g Glossary) clone() Glossary {
	out := make(Glossary, len(g))
	copy(out, g)
	return out
}

func trimEntry(e Entry) Entry {
	return Entry{Chinese: strings.TrimSpace(e.Chinese), German: strings.TrimSpace(e.German)}
}
