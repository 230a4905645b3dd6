package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "pagination stripped",
			in:   "Page 1\n\n\n\nHello world.\n\n\n\nPage 2",
			want: "Hello world.",
		},
		{
			name: "bare page numbers stripped",
			in:   "Intro text.\n42\nMore text.",
			want: "Intro text.\nMore text.",
		},
		{
			name: "separator lines stripped",
			in:   "Heading\n------\nBody",
			want: "Heading\nBody",
		},
		{
			name: "blank runs collapsed",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "horizontal whitespace collapsed",
			in:   "one\t\ttwo   three",
			want: "one two three",
		},
		{
			name: "line edges trimmed",
			in:   "  padded line  \n\tindented\t",
			want: "padded line\nindented",
		},
		{
			name: "numbers inside lines kept",
			in:   "Chapter 3 covers page 12 in detail.",
			want: "Chapter 3 covers page 12 in detail.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "Page 1\n\n\n\nHello   world.\n\n\n\n12\nSecond paragraph."
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestNormalizeSafetyValve(t *testing.T) {
	// A long document made almost entirely of bare numbers would be gutted
	// by pagination stripping, so it comes back only outer-trimmed.
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("7\n")
	}
	b.WriteString("tail")
	in := b.String()
	got := Normalize(in)
	assert.Equal(t, strings.TrimSpace(in), got)
}
