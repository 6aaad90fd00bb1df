package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"nestchat/errors"
	"strings"
)

//go:embed censored/*
var censoredFiles embed.FS

// WordList is the parsed censored dictionary plus the languages it was
// assembled from, kept around for startup logging.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWordList reads every embedded dictionary under censored/ into one
// deduplicated word list. The file name doubles as the language tag
// ("en.txt" -> "en").
func LoadWordList() (*WordList, error) {
	entries, err := fs.ReadDir(censoredFiles, "censored")
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := censoredFiles.ReadFile("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner copes with \n and \r\n endings alike.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for word := range unique {
		words = append(words, word)
	}
	return &WordList{Words: words, Languages: languages}, nil
}
