package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare-json",
			input:    `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "fenced-with-language-tag",
			input:    "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "fenced-without-language-tag",
			input:    "```\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "surrounding-whitespace",
			input:    "  \n{\"a\":1}\n  ",
			expected: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFences(tt.input))
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	type shape struct {
		Answer     bool    `json:"answer"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{
			name:   "valid-document",
			input:  `{"answer": true, "confidence": 0.9}`,
			wantOK: true,
		},
		{
			name:   "fenced-document",
			input:  "```json\n{\"answer\": false, \"confidence\": 0.4}\n```",
			wantOK: true,
		},
		{
			name:   "trailing-prose-rejected",
			input:  `{"answer": true, "confidence": 0.9} I hope that helps!`,
			wantOK: false,
		},
		{
			name:   "string-answer-rejected",
			input:  `{"answer": "yes", "confidence": 0.9}`,
			wantOK: false,
		},
		{
			name:   "empty-output",
			input:  "",
			wantOK: false,
		},
		{
			name:   "prose-only",
			input:  "The market should resolve YES.",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v shape
			assert.Equal(t, tt.wantOK, decodeStrict(tt.input, &v))
		})
	}
}
