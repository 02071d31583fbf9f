package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  hello   world\n\tagain  ", Options{})
	require.Equal(t, "hello world again", got)
}

func TestNormalizeTrailingSpace(t *testing.T) {
	got := Normalize("hello world", Options{TrailingSpace: true})
	require.Equal(t, "hello world ", got)
}

func TestNormalizeEmptyInput(t *testing.T) {
	require.Equal(t, "", Normalize("", Options{TrailingSpace: true}))
	require.Equal(t, "", Normalize("   \n ", Options{TrailingSpace: true}))
}

func TestCapitalizeSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "first letter",
			in:   "hello world",
			want: "Hello world",
		},
		{
			name: "after period",
			in:   "first sentence. second sentence",
			want: "First sentence. Second sentence",
		},
		{
			name: "after question and exclamation",
			in:   "really? yes! great",
			want: "Really? Yes! Great",
		},
		{
			name: "decimal is not a boundary",
			in:   "the value is 3.14 exactly",
			want: "The value is 3.14 exactly",
		},
		{
			name: "hostname is not a boundary",
			in:   "visit example.com today",
			want: "Visit example.com today",
		},
		{
			name: "abbreviation is not a boundary",
			in:   "ask dr. smith about it",
			want: "Ask dr. smith about it",
		},
		{
			name: "e.g. is not a boundary",
			in:   "use a tool, e.g. a hammer",
			want: "Use a tool, e.g. a hammer",
		},
		{
			name: "pronoun i",
			in:   "yesterday i went home. i was tired",
			want: "Yesterday I went home. I was tired",
		},
		{
			name: "i contractions",
			in:   "i'm sure i'll go and i've decided",
			want: "I'm sure I'll go and I've decided",
		},
		{
			name: "leading digit consumes the boundary",
			in:   "done. 42 items remain. next step",
			want: "Done. 42 items remain. Next step",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, capitalizeSentences(tt.in))
		})
	}
}

func TestNormalizeWithCapitalization(t *testing.T) {
	got := Normalize("  hello there.   how are you  ", Options{
		CapitalizeSentences: true,
		TrailingSpace:       true,
	})
	require.Equal(t, "Hello there. How are you ", got)
}
