package glossary_test

import (
	"testing"

	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert(t *testing.T) {
	t.Parallel()

	var g glossary.Glossary

	g, err := g.Upsert(glossary.Entry{Chinese: " 投资组合 ", German: "Portfolio"})
	require.NoError(t, err)
	require.Len(t, g, 1)
	assert.Equal(t, "投资组合", g[0].Chinese)

	g, err = g.Upsert(glossary.Entry{Chinese: "投资组合", German: "Depot"})
	require.NoError(t, err)
	require.Len(t, g, 1)
	assert.Equal(t, "Depot", g[0].German)

	_, err = g.Upsert(glossary.Entry{Chinese: "股票", German: "  "})
	require.ErrorIs(t, err, glossary.ErrMissingTerm)
}

func TestUpdateAndRemove(t *testing.T) {
	t.Parallel()

	g := glossary.Glossary{
		{Chinese: "股票", German: "Aktie"},
		{Chinese: "基金", German: "Fonds"},
		{Chinese: "币", German: "Coin"},
	}

	updated, err := g.Update(1, glossary.Entry{Chinese: "基金", German: "Investmentfonds"})
	require.NoError(t, err)
	assert.Equal(t, "Investmentfonds", updated[1].German)
	assert.Equal(t, "Fonds", g[1].German, "original must stay untouched")

	removed, err := updated.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, glossary.Glossary{
		{Chinese: "基金", German: "Investmentfonds"},
		{Chinese: "币", German: "Coin"},
	}, removed)

	_, err = g.Remove(3)
	require.ErrorIs(t, err, glossary.ErrIndexOutOfRange)
	_, err = g.Update(-1, glossary.Entry{Chinese: "a", German: "b"})
	require.ErrorIs(t, err, glossary.ErrIndexOutOfRange)
}

func TestUpdateKeepsTermsUnique(t *testing.T) {
	t.Parallel()

	g := glossary.Glossary{
		{Chinese: "基金", German: "Fonds"},
		{Chinese: "股票", German: "Aktie"},
	}

	_, err := g.Update(1, glossary.Entry{Chinese: " 基金 ", German: "Investmentfonds"})
	require.ErrorIs(t, err, glossary.ErrDuplicateTerm)

	// Renaming an entry to a new term is allowed
	updated, err := g.Update(1, glossary.Entry{Chinese: "债券", German: "Anleihe"})
	require.NoError(t, err)
	assert.Equal(t, glossary.Glossary{
		{Chinese: "基金", German: "Fonds"},
		{Chinese: "债券", German: "Anleihe"},
	}, updated)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		existing  glossary.Glossary
		incoming  []glossary.Entry
		wantLen   int
		wantAdded int
		wantSkip  int
		wantErr   error
	}{
		{
			name:     "adds new and skips existing",
			existing: glossary.Glossary{{Chinese: "股票", German: "Aktie"}},
			incoming: []glossary.Entry{
				{Chinese: "股票", German: "Wertpapier"},
				{Chinese: "基金", German: "Fonds"},
			},
			wantLen:   2,
			wantAdded: 1,
			wantSkip:  1,
		},
		{
			name:     "drops blank items",
			incoming: []glossary.Entry{{Chinese: " ", German: "x"}, {Chinese: "币", German: " Coin "}},
			wantLen:  1, wantAdded: 1,
		},
		{
			name:     "nothing valid",
			incoming: []glossary.Entry{{Chinese: "", German: ""}},
			wantErr:  glossary.ErrNoValidEntries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, res, err := tt.existing.Merge(tt.incoming)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantAdded, res.Added)
			assert.Equal(t, tt.wantSkip, res.Skipped)
		})
	}
}

func TestParseAndExport(t *testing.T) {
	t.Parallel()

	entries, err := glossary.Parse([]byte(`[{"chinese":"投资组合","german":"Portfolio"},{"chinese":1},"x"]`))
	require.NoError(t, err)
	assert.Equal(t, []glossary.Entry{{Chinese: "投资组合", German: "Portfolio"}}, entries)

	_, err = glossary.Parse([]byte(`{"chinese":"a"}`))
	require.ErrorIs(t, err, glossary.ErrNotArray)

	_, err = glossary.Glossary(nil).Export()
	require.ErrorIs(t, err, glossary.ErrEmptyGlossary)

	data, err := glossary.Glossary(entries).Export()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chinese": "投资组合"`)
}
