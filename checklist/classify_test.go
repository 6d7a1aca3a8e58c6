package checklist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// padURL builds "https://cdn.example.com/<padding><suffix>" of exactly n runes.
func padURL(t *testing.T, n int, suffix string) string {
	t.Helper()
	prefix := "https://cdn.example.com/"
	pad := n - len(prefix) - len(suffix)
	require.GreaterOrEqual(t, pad, 0)
	return prefix + strings.Repeat("a", pad) + suffix
}

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"49 chars", padURL(t, 49, ".jpg"), false},
		{"50 chars", padURL(t, 50, ".jpg"), true},
		{"upper case extension", padURL(t, 60, ".PNG"), true},
		{"query string", padURL(t, 60, ".webp") + "?token=abc", true},
		{"heic", padURL(t, 60, ".heic"), true},
		{"surrounding spaces", "  " + padURL(t, 60, ".jpeg") + "  ", true},
		{"no scheme", "cdn.example.com/" + strings.Repeat("a", 50) + ".jpg", false},
		{"video extension", padURL(t, 60, ".mp4"), false},
		{"inner space", "https://cdn.example.com/" + strings.Repeat("a", 20) + " b" + strings.Repeat("c", 10) + ".jpg", false},
		{"plain sentence", strings.Repeat("texto livre ", 6), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageURL(tt.text))
		})
	}
}

func TestIsVideoURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"short youtu.be link", "https://youtu.be/abc123XYZ", false},
		{"long youtu.be link", "https://youtu.be/abc123XYZ?si=" + strings.Repeat("q", 30), true},
		{"youtube watch", "https://www.youtube.com/watch?v=" + strings.Repeat("x", 30), true},
		{"youtube without scheme", "www.youtube.com/watch?v=" + strings.Repeat("x", 30), true},
		{"vimeo", "https://vimeo.com/" + strings.Repeat("1", 40), true},
		{"mp4", padURL(t, 55, ".mp4"), true},
		{"3gp with query", padURL(t, 55, ".3gp") + "?x=1", true},
		{"MOV upper case", padURL(t, 55, ".MOV"), true},
		{"image", padURL(t, 55, ".jpg"), false},
		{"49 chars mp4", padURL(t, 49, ".mp4"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVideoURL(tt.text))
		})
	}
}

func TestIsLongObservation(t *testing.T) {
	long := "Cliente relatou ruído no compressor durante a partida da máquina."
	require.GreaterOrEqual(t, len([]rune(long)), MinContentLength)

	assert.True(t, IsLongObservation(long))
	assert.True(t, IsLongObservation("\n"+long+"\t"))
	assert.False(t, IsLongObservation(""))
	assert.False(t, IsLongObservation("SIM"))
	assert.False(t, IsLongObservation(strings.Repeat(" ", 60)))
	assert.False(t, IsLongObservation(padURL(t, 60, ".jpg")))
	assert.False(t, IsLongObservation(padURL(t, 60, ".webm")))
}

func TestLengthGuardCountsRunes(t *testing.T) {
	// 49 runes, more than 49 bytes
	text := strings.Repeat("ã", 49)
	assert.False(t, IsLongObservation(text))
	assert.True(t, IsLongObservation(text+"o"))
}
