package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWordList(t *testing.T) {
	req := require.New(t)

	list, err := LoadWordList()
	req.NoError(err)
	req.NotEmpty(list.Words)
	req.ElementsMatch([]string{"en", "fr"}, list.Languages)

	for _, word := range list.Words {
		req.Equal(word, strings.TrimSpace(word))
		req.NotEmpty(word)
	}
}
