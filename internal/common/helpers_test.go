package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTelegramHTMLEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"A & B", "A &amp; B"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"&lt;", "&amp;lt;"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TelegramHTMLEscape(tt.in), tt.in)
	}
}

func TestValueInsideBrackets(t *testing.T) {
	v, ok := ValueInsideBrackets("Футболка [ XL ]")
	assert.True(t, ok)
	assert.Equal(t, "XL", v)

	v, ok = ValueInsideBrackets("[a] [b]")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = ValueInsideBrackets("без скобок")
	assert.False(t, ok)

	_, ok = ValueInsideBrackets("только [ открывающая")
	assert.False(t, ok)

	_, ok = ValueInsideBrackets("] перевёрнуто [")
	assert.False(t, ok)
}

func TestValuesAroundDash(t *testing.T) {
	before, after := ValuesAroundDash("XL-150")
	assert.Equal(t, "XL", before)
	assert.Equal(t, "150", after)

	before, after = ValuesAroundDash("XL--2.5")
	assert.Equal(t, "XL", before)
	assert.Equal(t, "-2.5", after)

	before, after = ValuesAroundDash("XL")
	assert.Empty(t, before)
	assert.Empty(t, after)
}

func TestCheckTelegramCaptionLength(t *testing.T) {
	assert.True(t, CheckTelegramCaptionLength(strings.Repeat("a", 900), 0))
	assert.False(t, CheckTelegramCaptionLength(strings.Repeat("a", 901), 0))
	// кириллица считается по символам, а не по байтам
	assert.True(t, CheckTelegramCaptionLength(strings.Repeat("я", 900), 0))
	assert.False(t, CheckTelegramCaptionLength("abcdef", 5))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 8, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "08.03.2024 09:05", FormatDateTime(ts, nil))
	assert.Equal(t, "08.03.2024 12:05", FormatDateTime(ts, time.FixedZone("MSK", 3*60*60)))
}
