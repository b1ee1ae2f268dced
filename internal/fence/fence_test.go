package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text is untouched",
			input:    "a: 1\nb: 2\n",
			expected: "a: 1\nb: 2\n",
		},
		{
			name:     "fenced block with language tag",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```\nThanks",
			expected: `{"a": 1}`,
		},
		{
			name:     "fenced block without tag",
			input:    "```\nname: x\n```",
			expected: "name: x",
		},
		{
			name:     "upper case tag",
			input:    "```YAML\nkey: value\n```",
			expected: "key: value",
		},
		{
			name:     "only the first block is kept",
			input:    "```json\n[1]\n```\ntext\n```json\n[2]\n```",
			expected: "[1]",
		},
		{
			name:     "multi-line body is trimmed",
			input:    "```toml\n\n  a = 1\n  b = 2  \n\n```",
			expected: "a = 1\n  b = 2",
		},
		{
			name:     "inline spans lose backticks",
			input:    "use `{\"a\":1}` or `[2]` please",
			expected: "use {\"a\":1} or [2] please",
		},
		{
			name:     "empty fenced block",
			input:    "```json\n```",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(Strip([]byte(tt.input))))
		})
	}
}

func TestStrip_InvalidUTF8IsReplaced(t *testing.T) {
	input := []byte{'a', 0xff, 'b'}
	assert.Equal(t, "a�b", string(Strip(input)))
}

func TestStripString(t *testing.T) {
	assert.Equal(t, "x: 1", StripString("```yaml\nx: 1\n```"))
}
