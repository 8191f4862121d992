package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/dolmetscher/internal/glossary"
)

// Session gives the translation core read access to the current profile and
// routes glossary edits to it.
type Session struct {
	store *Store
}

// NewSession creates a Session over store.
func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// Credentials returns the credentials and glossary of the current profile.
func (s *Session) Credentials(ctx context.Context) (Credentials, error) {
	p, err := s.store.Current(ctx)
	if err != nil {
		return Credentials{}, err
	}

	if p.APIKey == "" {
		return Credentials{}, ErrNotConfigured
	}

	return Credentials{
		ProfileID: p.ID,
		Primary:   p.APIKey,
		Secondary: p.SecondaryAPIKey,
		Glossary:  p.Vocabulary,
	}, nil
}

// Configured reports whether a usable current profile exists.
func (s *Session) Configured(ctx context.Context) bool {
	_, err := s.Credentials(ctx)
	return err == nil
}

// AddTerm adds or overwrites a glossary entry of the current profile.
func (s *Session) AddTerm(ctx context.Context, entry glossary.Entry) (glossary.Glossary, error) {
	return s.editCurrent(ctx, func(g glossary.Glossary) (glossary.Glossary, error) {
		return g.Upsert(entry)
	})
}

// UpdateTerm replaces the glossary entry at index.
func (s *Session) UpdateTerm(ctx context.Context, index int, entry glossary.Entry) (glossary.Glossary, error) {
	return s.editCurrent(ctx, func(g glossary.Glossary) (glossary.Glossary, error) {
		return g.Update(index, entry)
	})
}

// RemoveTerm deletes the glossary entry at index.
func (s *Session) RemoveTerm(ctx context.Context, index int) (glossary.Glossary, error) {
	return s.editCurrent(ctx, func(g glossary.Glossary) (glossary.Glossary, error) {
		return g.Remove(index)
	})
}

// ClearTerms removes every glossary entry.
func (s *Session) ClearTerms(ctx context.Context) error {
	_, err := s.editCurrent(ctx, func(glossary.Glossary) (glossary.Glossary, error) {
		return glossary.Glossary{}, nil
	})
	return err
}

// ImportTerms merges an exported glossary into the current profile.
func (s *Session) ImportTerms(ctx context.Context, data []byte) (glossary.MergeResult, error) {
	entries, err := glossary.Parse(data)
	if err != nil {
		return glossary.MergeResult{}, err
	}

	var result glossary.MergeResult
	_, err = s.editCurrent(ctx, func(g glossary.Glossary) (glossary.Glossary, error) {
		merged, res, err := g.Merge(entries)
		result = res
		return merged, err
	})
	return result, err
}

// ExportTerms encodes the glossary of the current profile.
func (s *Session) ExportTerms(ctx context.Context) ([]byte, *Profile, error) {
	p, err := s.store.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, err := p.Vocabulary.Export()
	if err != nil {
		return nil, nil, err
	}
	return data, p, nil
}

func (s *Session) editCurrent(
	ctx context.Context, fn func(glossary.Glossary) (glossary.Glossary, error),
) (glossary.Glossary, error) {
	p, err := s.store.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, fmt.Errorf("select a profile first: %w", err)
		}
		return nil, err
	}
	return s.store.EditVocabulary(ctx, p.ID, fn)
}
