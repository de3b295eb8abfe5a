package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContextPolicy(t *testing.T) {
	tests := []struct {
		in      string
		def     ContextPolicy
		want    ContextPolicy
		wantErr bool
	}{
		{"", ContextModelInput, ContextModelInput, false},
		{"", ContextFullText, ContextFullText, false},
		{"model_input", ContextFullText, ContextModelInput, false},
		{" FULL_TEXT ", ContextModelInput, ContextFullText, false},
		{"everything", ContextFullText, ContextFullText, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseContextPolicy(tt.in, tt.def)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContextPolicyRetain(t *testing.T) {
	assert.Equal(t, "short", ContextModelInput.retain("short and long", "short"))
	assert.Equal(t, "short and long", ContextFullText.retain("short and long", "short"))
}
