package processors

import (
	"context"
	"regexp"
	"strings"
)

// Punctuation is the fixed set of characters removed during normalization
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`[\s\v\x{85}\p{Zs}\x{2028}\x{2029}]+`)
)

// Normalize collapses newlines then whitespace, strips punctuation and lower-cases
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(Punctuation, r) {
			return -1
		}
		return r
	}, text)
	return strings.ToLower(text)
}

// NormalizeFile reads the document at path and returns its normalized text
func NormalizeFile(ctx context.Context, path string) (string, error) {
	raw, err := ReadDocument(ctx, path)
	if err != nil {
		return "", err
	}
	return Normalize(raw), nil
}
