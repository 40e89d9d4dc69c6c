package pipeline

import (
	"io"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/pkg/analysis/annotators"
	"github.com/athapong/docinsight/pkg/analysis/sentiment"
	"github.com/athapong/docinsight/pkg/analysis/stopwords"
	"github.com/athapong/docinsight/pkg/config"
	"github.com/athapong/docinsight/services"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backends holds the annotator and scorer shared by every run of a process
type Backends struct {
	Annotator analysis.Annotator
	Scorer    analysis.Scorer
	Stopwords *stopwords.List
}

// NewBackends builds the configured annotator and scorer. The chat client is
// only created when a backend needs it.
func NewBackends(cfg *config.Config, logger *logrus.Logger) (*Backends, error) {
	stops, err := stopwords.Load(cfg.Language, cfg.StopwordsFile)
	if err != nil {
		return nil, errors.Wrap(err, "load stopwords")
	}

	var chat *services.ChatClient
	if cfg.NeedsLLM() {
		oc := services.OpenAIConfig{
			APIKey:            cfg.LLMAPIKey,
			BaseURL:           cfg.LLMBaseURL,
			Model:             cfg.LLMModel,
			Temperature:       float32(cfg.LLMTemperature),
			RequestsPerMinute: cfg.LLMRequestsPerMin,
		}
		client, err := services.NewOpenAIClient(oc)
		if err != nil {
			return nil, errors.Wrap(err, "create chat client")
		}
		chat = services.NewChatClient(client, oc)
	}

	annotator, err := annotators.New(annotators.Options{
		Backend:           cfg.AnnotatorBackend,
		Language:          cfg.Language,
		Stopwords:         stops,
		OverrideStopwords: cfg.StopwordsFile != "",
		Spacy: annotators.SpacyConfig{
			Python:    cfg.PythonBin,
			Model:     cfg.SpacyModel,
			ScriptDir: cfg.ScriptDir,
			MaxLength: cfg.MaxLength,
		},
		Chat:           chat,
		MaxInputTokens: cfg.LLMMaxInputTokens,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	scorer, err := sentiment.New(cfg.ScorerBackend, chat, cfg.Language)
	if err != nil {
		return nil, err
	}

	return &Backends{
		Annotator: annotator,
		Scorer:    scorer,
		Stopwords: stops,
	}, nil
}

// Close stops the annotator when it owns a process
func (b *Backends) Close() error {
	if c, ok := b.Annotator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
