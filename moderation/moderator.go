package moderation

import (
	"fmt"
	"log/slog"
	"nestchat/errors"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks censored words in user content, star for star, without
// touching the surrounding text.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
	log          *slog.Logger
}

// textMap is the searchable projection of a text: the normalized runes
// plus, for each of them, the index of the original rune it came from.
type textMap struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton over a normalized copy
// of the censored words. Entries that normalize to nothing (empty lines,
// pure punctuation) are skipped.
func NewModerator(censoredWords []string, censoredChar rune, log *slog.Logger) (Moderator, error) {
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		folded := mapText(word).normalized
		if len(folded) == 0 {
			continue
		}
		patterns = append(patterns, folded)
	}
	if len(patterns) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}

	log.Debug(fmt.Sprintf("Moderation automaton ready with %d patterns", len(patterns)))
	return Moderator{matcher: m, censoredChar: censoredChar, log: log}, nil
}

// Censor replaces every censored occurrence in the original text and
// returns the rewritten text together with the normalized words that were
// hit, in order of appearance. Spacing and untouched runes keep their
// exact position.
func (m *Moderator) Censor(original string) (string, []string) {
	mapping := mapText(original)
	if len(mapping.normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	origRunes := []rune(original)
	var words []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		words = append(words, string(span.Word))

		// Mask the original range covered by the match, leet spellings
		// and in-word punctuation included.
		first := mapping.origIdx[start]
		last := mapping.origIdx[end-1]
		for i := first; i <= last; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	return string(origRunes), words
}

// mapText lowercases, folds leet spellings and drops noise runes while
// remembering where each surviving rune sat in the input.
func mapText(input string) textMap {
	runes := []rune(input)
	norm := make([]rune, 0, len(runes))
	idx := make([]int, 0, len(runes))
	for i, r := range runes {
		folded := unleet(r)
		if isNoise(folded) {
			continue
		}
		norm = append(norm, unicode.ToLower(folded))
		idx = append(idx, i)
	}
	return textMap{normalized: norm, origIdx: idx}
}

// unleet folds common leet spellings back onto their letter.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies separators and decoration to ignore while matching,
// so spaced-out spellings still hit.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
