package utils_test

import (
	"testing"

	"github.com/robalyx/dolmetscher/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "short", input: "Hallo", n: 10, want: "Hallo"},
		{name: "exact", input: "Hallo", n: 5, want: "Hallo"},
		{name: "truncated", input: "Hallo Welt", n: 5, want: "Hallo..."},
		{name: "multibyte", input: "你好世界朋友", n: 4, want: "你好世界..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.Preview(tt.input, tt.n))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	decomposed := " Grün "
	assert.Equal(t, "Grün", utils.NormalizeText(decomposed))
}

func TestUTF16Len(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{input: "", want: 0},
		{input: "Hallo", want: 5},
		{input: "你好", want: 2},
		{input: "Gr\u00fcn", want: 4},
		{input: "Gru\u0308n", want: 5},
		{input: "👍", want: 2},
		{input: "ok 😀😀", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.UTF16Len(tt.input))
		})
	}
}
