package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		target int
		want   []string
	}{
		{
			name:   "empty",
			in:     "",
			target: 100,
			want:   nil,
		},
		{
			name:   "whitespace only",
			in:     "   \n\n  ",
			target: 100,
			want:   nil,
		},
		{
			name:   "oversized sentence emitted whole",
			in:     "Hello world. Bye.",
			target: 8,
			want:   []string{"Hello world.", "Bye."},
		},
		{
			name:   "sentences accumulate under target",
			in:     "One. Two. Three.",
			target: 100,
			want:   []string{"One. Two. Three."},
		},
		{
			name:   "boundary respected",
			in:     "Alpha beta. Gamma delta. Epsilon.",
			target: 12,
			want:   []string{"Alpha beta.", "Gamma delta.", "Epsilon."},
		},
		{
			name:   "newlines end sentences",
			in:     "Heading without period\nBody sentence here.",
			target: 25,
			want:   []string{"Heading without period", "Body sentence here."},
		},
		{
			name:   "question and exclamation marks",
			in:     "Really? Yes! Fine.",
			target: 7,
			want:   []string{"Really?", "Yes!", "Fine."},
		},
		{
			name:   "non-positive target yields single chunk",
			in:     "One. Two.",
			target: 0,
			want:   []string{"One. Two."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk(tt.in, tt.target))
		})
	}
}

func TestChunkCoversInput(t *testing.T) {
	// Every word of the input must land in exactly one chunk, in order.
	in := "The quick brown fox jumps. Over the lazy dog! And then? It rests. " +
		"A second pass begins. More sentences follow here. The end arrives."
	chunks := Chunk(in, 40)
	assert.Greater(t, len(chunks), 1)
	joined := strings.Join(chunks, " ")
	assert.Equal(t, strings.Join(strings.Fields(in), " "), joined)
	for _, c := range chunks {
		assert.NotEmpty(t, c)
	}
}

func TestChunkIdempotent(t *testing.T) {
	in := "The quick brown fox jumps. Over the lazy dog! And then? It rests. " +
		"A second pass begins. More sentences follow here. The end arrives."
	first := Chunk(in, 40)
	second := Chunk(in, 40)
	assert.Equal(t, first, second)
}
