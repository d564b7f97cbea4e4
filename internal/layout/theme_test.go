package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGB
	}{
		{"with hash", "#4f46e5", RGB{79, 70, 229}},
		{"without hash", "4f46e5", RGB{79, 70, 229}},
		{"uppercase", "#4F46E5", RGB{79, 70, 229}},
		{"surrounding whitespace", "  #4f46e5 ", RGB{79, 70, 229}},
		{"white", "#ffffff", RGB{255, 255, 255}},
		{"empty falls back to black", "", Black},
		{"short form rejected", "#f46", Black},
		{"too long rejected", "#4f46e5aa", Black},
		{"non-hex rejected", "#zzzzzz", Black},
		{"garbage rejected", "not a color", Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHexColor(tt.input))
		})
	}
}

func TestResolveTheme(t *testing.T) {
	theme := ResolveTheme("#4f46e5")
	assert.Equal(t, RGB{79, 70, 229}, theme.Primary)
	assert.Equal(t, MutedText, theme.Muted)
	assert.Equal(t, Border, theme.Border)

	// 非法主色只影响 Primary，其余装饰色不变
	broken := ResolveTheme("oops")
	assert.Equal(t, Black, broken.Primary)
	assert.Equal(t, theme.Muted, broken.Muted)
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#4F46E5", RGB{79, 70, 229}.Hex())
	assert.Equal(t, "#000000", Black.Hex())
}
