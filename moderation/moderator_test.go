package moderation

import (
	"log/slog"
	"nestchat/errors"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// TestModerator_Censor
// The dictionary avoids short words that collide with innocent substrings
// (e.g. "he" inside "The").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"scammer", "lowball", "offsite"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "This guy is a scammer for sure",
			expected: "This guy is a ******* for sure",
			words:    []string{"scammer"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "scammer scammer scammer",
			expected: "******* ******* *******",
			words:    []string{"scammer", "scammer", "scammer"},
		},
		{
			name: "Leet speak and internal punctuation",
			// 5 (index 15) . C . 4 . M . M . 3 . R (index 27) -> 13 characters
			input:    "Meet my friend 5.C.4.M.M.3.R !",
			expected: "Meet my friend ************* !",
			words:    []string{"scammer"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "L-O-W-B-A-L-L offer on an O-F-F-S-I-T-E deal",
			expected: "************* offer on an ************* deal",
			words:    []string{"lowball", "offsite"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été sans scammer",
			expected: "Un été sans *******",
			words:    []string{"scammer"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "You absolute scammer!",
			expected: "You absolute *******!",
			words:    []string{"scammer"},
		},
		{
			name:     "Nothing to censor",
			input:    "Lovely flat near the station",
			expected: "Lovely flat near the station",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary polluted with noise-only entries
	dictionary := []string{"...", ",,,", "", "scammer"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	// Then the real word is still censored
	input := "That agent is a scammer here"
	expected := "That agent is a ******* here"
	content, words := mod.Censor(input)
	req.Equal(expected, content)
	req.Equal([]string{"scammer"}, words)

	// Then real noise in the text stays untouched
	input = "Hello ..."
	expected = "Hello ..."
	content, words = mod.Censor(input)
	req.Equal(expected, content)
	req.Nil(words)
}

func TestModerator_RejectsAllNoiseDictionary(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := NewModerator([]string{"...", ",,,", "   ", ""}, replacementChar, log)
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func BenchmarkModerator_Censor(b *testing.B) {
	list, err := LoadWordList()
	if err != nil {
		b.Fatal(err)
	}
	mod, err := NewModerator(list.Words, replacementChar, logs.GetLoggerFromLevel(slog.LevelError))
	if err != nil {
		b.Fatal(err)
	}

	input := "The flat looked great until this f.u.c.k.1.n.g agent asked me to pay offsite, what a scam"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mod.Censor(input)
	}
}
