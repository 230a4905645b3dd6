package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no fences",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{\"a\": 1}\n```  ",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid json untouched",
			input:    `{"question": "Q", "answer": "A"}`,
			expected: `{"question": "Q", "answer": "A"}`,
		},
		{
			name:     "missing opening quote after comma",
			input:    `{"question": "Q", answer": "A"}`,
			expected: `{"question": "Q", "answer": "A"}`,
		},
		{
			name:     "missing opening quote after brace",
			input:    `{question": "Q", "answer": "A"}`,
			expected: `{"question": "Q", "answer": "A"}`,
		},
		{
			name:     "unquoted word that is not a key",
			input:    `{"options": [1, 2]}`,
			expected: `{"options": [1, 2]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairJSON(tt.input))
		})
	}
}

func TestRepairJSONProducesParseableOutput(t *testing.T) {
	broken := `{"flashcards": [{question": "What is X?", answer": "Y."}]}`

	var payload flashcardPayload
	require.NoError(t, json.Unmarshal([]byte(repairJSON(broken)), &payload))
	require.Len(t, payload.Flashcards, 1)
	assert.Equal(t, "What is X?", payload.Flashcards[0].Question)
}
