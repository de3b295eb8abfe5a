package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"multibyte cut keeps runes whole", "héllo wörld", 2, "hé"},
		{"cjk", "日本語のテキスト", 3, "日本語"},
		{"zero limit disables", "hello", 0, "hello"},
		{"negative limit disables", "hello", -1, "hello"},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			if tt.max > 0 {
				assert.LessOrEqual(t, CharCount(got), tt.max)
			}
		})
	}
}

func TestTruncateLongText(t *testing.T) {
	text := strings.Repeat("ü", 20000)
	got := Truncate(text, 12000)
	assert.Equal(t, 12000, CharCount(got))
}

func TestSourceDescriptors(t *testing.T) {
	u := URL("https://example.com/")
	assert.Equal(t, KindWeb, u.Kind())
	assert.Equal(t, "https://example.com/", u.URL())
	assert.Nil(t, u.Bytes())

	data := []byte("%PDF-1.4")
	p := PDF(data)
	data[0] = 'X'
	assert.Equal(t, KindPDF, p.Kind())
	assert.Equal(t, "%PDF-1.4", string(p.Bytes()), "source must not alias caller bytes")
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Code: 404, Status: "404 Not Found"}
	assert.Equal(t, "unexpected HTTP status 404 Not Found", err.Error())
}
