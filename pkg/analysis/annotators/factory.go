package annotators

import (
	"fmt"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/services"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by New
const (
	BackendSpacy = "spacy"
	BackendProse = "prose"
	BackendLLM   = "llm"
)

// Options selects and configures an annotator backend
type Options struct {
	Backend  string
	Language string

	// Stopwords flags tokens for the prose backend. For spacy and llm it
	// replaces the model's own flags only when OverrideStopwords is set.
	Stopwords         analysis.StopwordChecker
	OverrideStopwords bool

	Spacy          SpacyConfig
	Chat           *services.ChatClient
	MaxInputTokens int

	Logger *logrus.Logger
}

// New builds the annotator named by opts.Backend. Callers should Close the
// result when it implements io.Closer.
func New(opts Options) (analysis.Annotator, error) {
	var override analysis.StopwordChecker
	if opts.OverrideStopwords {
		override = opts.Stopwords
	}

	switch opts.Backend {
	case BackendSpacy, "":
		return NewSpacyAnnotator(opts.Spacy, opts.Logger).WithStopwords(override), nil
	case BackendProse:
		if opts.Stopwords == nil {
			return nil, fmt.Errorf("prose annotator needs a stopword list")
		}
		return NewProseAnnotator(opts.Stopwords, opts.Logger), nil
	case BackendLLM:
		if opts.Chat == nil {
			return nil, fmt.Errorf("llm annotator needs a chat client")
		}
		return NewLLMAnnotator(opts.Chat, opts.Language, opts.MaxInputTokens, opts.Logger).WithStopwords(override), nil
	default:
		return nil, fmt.Errorf("unknown annotator backend %q", opts.Backend)
	}
}
