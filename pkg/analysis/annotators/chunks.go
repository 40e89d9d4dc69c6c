package annotators

import (
	"strings"
	"unicode"

	"github.com/athapong/docinsight/pkg/analysis"
)

// chunkSpan is a noun chunk expressed as token indices, End exclusive
type chunkSpan struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Root  int    `json:"root"`
}

// buildChunks resolves spans against tokens. Spans outside the token range
// are dropped.
func buildChunks(tokens []analysis.Token, spans []chunkSpan) []analysis.NounChunk {
	chunks := make([]analysis.NounChunk, 0, len(spans))
	for _, sp := range spans {
		if sp.Start < 0 || sp.End > len(tokens) || sp.Start >= sp.End {
			continue
		}

		members := tokens[sp.Start:sp.End]
		chunk := analysis.NounChunk{
			Text:       sp.Text,
			TokenCount: len(members),
		}
		if chunk.Text == "" {
			words := make([]string, len(members))
			for i, tok := range members {
				words[i] = tok.Text
			}
			chunk.Text = strings.Join(words, " ")
		}
		for _, tok := range members {
			if tok.IsStop {
				chunk.HasStopword = true
				break
			}
		}
		if sp.Root >= 0 && sp.Root < len(tokens) {
			chunk.RootIsAlpha = tokens[sp.Root].IsAlpha
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// applyStopwords replaces the stopword flag of every token using checker
func applyStopwords(tokens []analysis.Token, checker analysis.StopwordChecker) {
	if checker == nil {
		return
	}
	for i := range tokens {
		tokens[i].IsStop = checker.IsStopword(tokens[i].Text)
	}
}

// isAlpha reports whether s is non-empty and made of letters only
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
