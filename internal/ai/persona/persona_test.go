package persona_test

import (
	"strings"
	"testing"

	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	reg := persona.Default()

	tests := []struct {
		name     string
		persona  string
		source   string
		entries  []glossary.Entry
		contains []string
		excludes []string
	}{
		{
			name:     "professor without glossary",
			persona:  persona.Professor,
			source:   "您好，今天市场怎么样？",
			contains: []string{"教授", persona.Rules, "请翻译以下中文："},
			excludes: []string{"专业词汇固定对照表"},
		},
		{
			name:    "glossary block is injected",
			persona: persona.Troll3,
			source:  "你的投资组合很好",
			entries: []glossary.Entry{
				{Chinese: "投资组合", German: "Portfolio"},
				{Chinese: "币圈", German: "Krypto-Szene"},
			},
			contains: []string{
				"专业词汇固定对照表：\n\"投资组合\" → \"Portfolio\"\n\"币圈\" → \"Krypto-Szene\"\n\n请在翻译时优先使用上述词汇表中的对应翻译。",
			},
		},
		{
			name:    "empty source",
			persona: persona.Assistant25,
			source:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prompt, err := reg.BuildPrompt(tt.persona, tt.source, tt.entries)
			require.NoError(t, err)

			p, err := reg.Get(tt.persona)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(prompt, p.Instruction))
			assert.True(t, strings.HasSuffix(prompt, "请翻译以下中文："+tt.source))
			for _, s := range tt.contains {
				assert.Contains(t, prompt, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, prompt, s)
			}
		})
	}
}

func TestUnknownPersona(t *testing.T) {
	t.Parallel()

	reg := persona.Default()

	_, err := reg.BuildPrompt("banker", "你好", nil)
	require.ErrorIs(t, err, persona.ErrUnknownPersona)

	_, err = reg.ModelFor("banker")
	require.ErrorIs(t, err, persona.ErrUnknownPersona)
}

func TestModelFor(t *testing.T) {
	t.Parallel()

	reg := persona.Default()

	model, err := reg.ModelFor(persona.Professor)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", model)

	model, err = reg.ModelFor(persona.Troll4)
	require.NoError(t, err)
	assert.Equal(t, "mistralai/mistral-small-3.2-24b-instruct", model)

	list := reg.List()
	require.Len(t, list, 8)
	assert.Equal(t, persona.Professor, list[0].ID)
	assert.Equal(t, persona.Troll4, list[7].ID)
}
