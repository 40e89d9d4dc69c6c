package annotators

import (
	"context"
	"strings"

	"github.com/athapong/docinsight/pkg/analysis"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProseLabels is the entity vocabulary of the prose model. It has no
// organization or date classes.
var ProseLabels = analysis.Labels{
	Person:   "PERSON",
	Location: "GPE",
}

var (
	nounTags     = mapset.NewSet[string]("NN", "NNS", "NNP", "NNPS")
	modifierTags = mapset.NewSet[string]("DT", "PDT", "PRP$", "JJ", "JJR", "JJS", "CD", "POS")
)

// ProseAnnotator annotates in process with jdkato/prose
type ProseAnnotator struct {
	logger    *logrus.Logger
	stopwords analysis.StopwordChecker
}

// NewProseAnnotator creates a prose annotator flagging stopwords with checker
func NewProseAnnotator(checker analysis.StopwordChecker, logger *logrus.Logger) *ProseAnnotator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &ProseAnnotator{logger: logger, stopwords: checker}
}

// Labels returns ProseLabels
func (p *ProseAnnotator) Labels() analysis.Labels {
	return ProseLabels
}

// Annotate tags text and derives noun chunks from part-of-speech runs
func (p *ProseAnnotator) Annotate(ctx context.Context, text string) (*analysis.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create prose document")
	}

	proseTokens := doc.Tokens()
	tokens := make([]analysis.Token, len(proseTokens))
	tags := make([]string, len(proseTokens))
	for i, tok := range proseTokens {
		tokens[i] = analysis.Token{
			Text:    tok.Text,
			Lemma:   strings.ToLower(tok.Text),
			IsAlpha: isAlpha(tok.Text),
		}
		tags[i] = tok.Tag
	}
	applyStopwords(tokens, p.stopwords)

	proseEntities := doc.Entities()
	entities := make([]analysis.Entity, len(proseEntities))
	for i, ent := range proseEntities {
		entities[i] = analysis.Entity{Text: ent.Text, Label: ent.Label}
	}

	chunks := buildChunks(tokens, chunkByTags(tags))

	p.logger.WithFields(logrus.Fields{
		"tokens":   len(tokens),
		"entities": len(entities),
		"chunks":   len(chunks),
	}).Debug("prose annotation completed")

	return &analysis.Annotation{
		Tokens:     tokens,
		Entities:   entities,
		NounChunks: chunks,
	}, nil
}

// chunkByTags splits maximal modifier/noun runs into chunks ending at the
// last noun of the run. Runs without a noun yield nothing.
func chunkByTags(tags []string) []chunkSpan {
	var spans []chunkSpan
	start, lastNoun := -1, -1

	flush := func() {
		if start >= 0 && lastNoun >= start {
			spans = append(spans, chunkSpan{Start: start, End: lastNoun + 1, Root: lastNoun})
		}
		start, lastNoun = -1, -1
	}

	for i, tag := range tags {
		switch {
		case nounTags.Contains(tag):
			if start < 0 {
				start = i
			}
			lastNoun = i
		case modifierTags.Contains(tag):
			if lastNoun >= 0 {
				// a modifier after a noun opens a new phrase
				flush()
			}
			if start < 0 {
				start = i
			}
		default:
			flush()
		}
	}
	flush()
	return spans
}
