package annotators

import (
	"context"
	"fmt"
	"sync"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/services"
	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const llmAnnotatorPrompt = `You are a linguistic annotator for %s text.
Return one JSON object with exactly these keys:
- "tokens": array of {"text", "lemma", "is_alpha", "is_stop"} for every word in order
- "entities": array of {"text", "label"} where label is one of PERSON, LOCATION, ORGANIZATION, DATE
- "noun_chunks": array of {"text", "start", "end", "root"} where start and end (exclusive) and root are token indices
Copy surface text exactly as it appears in the input. Do not add commentary.`

// LLMAnnotator asks an OpenAI-compatible model for the annotation
type LLMAnnotator struct {
	chat           *services.ChatClient
	language       string
	maxInputTokens int
	stopwords      analysis.StopwordChecker
	logger         *logrus.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
}

// NewLLMAnnotator creates an annotator. maxInputTokens > 0 rejects larger
// inputs before any request is sent.
func NewLLMAnnotator(chat *services.ChatClient, language string, maxInputTokens int, logger *logrus.Logger) *LLMAnnotator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &LLMAnnotator{
		chat:           chat,
		language:       language,
		maxInputTokens: maxInputTokens,
		logger:         logger,
	}
}

// WithStopwords replaces the model's stopword flags with checker
func (a *LLMAnnotator) WithStopwords(checker analysis.StopwordChecker) *LLMAnnotator {
	a.stopwords = checker
	return a
}

// Labels returns the generic vocabulary requested in the prompt
func (a *LLMAnnotator) Labels() analysis.Labels {
	return analysis.DefaultLabels
}

// Annotate sends text to the model and parses its JSON answer
func (a *LLMAnnotator) Annotate(ctx context.Context, text string) (*analysis.Annotation, error) {
	if err := a.checkBudget(text); err != nil {
		return nil, err
	}

	content, err := a.chat.CompleteJSON(ctx, fmt.Sprintf(llmAnnotatorPrompt, a.language), text)
	if err != nil {
		return nil, err
	}

	result, err := parseAnnotation(content)
	if err != nil {
		return nil, err
	}
	applyStopwords(result.Tokens, a.stopwords)

	a.logger.WithFields(logrus.Fields{
		"model":    a.chat.Model(),
		"tokens":   len(result.Tokens),
		"entities": len(result.Entities),
	}).Debug("LLM annotation received")

	return result, nil
}

func (a *LLMAnnotator) checkBudget(text string) error {
	if a.maxInputTokens <= 0 {
		return nil
	}

	a.encOnce.Do(func() {
		a.enc, a.encErr = tiktoken.GetEncoding("cl100k_base")
	})
	if a.encErr != nil {
		return errors.Wrap(a.encErr, "failed to get encoding")
	}

	n := len(a.enc.Encode(text, nil, nil))
	if n > a.maxInputTokens {
		return errors.Errorf("input has %d tokens, budget is %d", n, a.maxInputTokens)
	}
	return nil
}

// parseAnnotation reads the model payload. Chunk flags are derived from the
// tokens, not trusted from the model.
func parseAnnotation(content string) (*analysis.Annotation, error) {
	if !gjson.Valid(content) {
		return nil, errors.New("model returned invalid JSON")
	}
	doc := gjson.Parse(content)
	if !doc.Get("tokens").IsArray() {
		return nil, errors.New("model response has no tokens array")
	}

	result := &analysis.Annotation{}

	doc.Get("tokens").ForEach(func(_, tok gjson.Result) bool {
		text := tok.Get("text").String()
		lemma := tok.Get("lemma").String()
		if lemma == "" {
			lemma = text
		}
		isAlphaFlag := tok.Get("is_alpha")
		alpha := isAlpha(text)
		if isAlphaFlag.Exists() {
			alpha = isAlphaFlag.Bool()
		}
		result.Tokens = append(result.Tokens, analysis.Token{
			Text:    text,
			Lemma:   lemma,
			IsAlpha: alpha,
			IsStop:  tok.Get("is_stop").Bool(),
		})
		return true
	})

	doc.Get("entities").ForEach(func(_, ent gjson.Result) bool {
		text := ent.Get("text").String()
		if text != "" {
			result.Entities = append(result.Entities, analysis.Entity{
				Text:  text,
				Label: ent.Get("label").String(),
			})
		}
		return true
	})

	var spans []chunkSpan
	doc.Get("noun_chunks").ForEach(func(_, ch gjson.Result) bool {
		root := ch.Get("root")
		sp := chunkSpan{
			Text:  ch.Get("text").String(),
			Start: int(ch.Get("start").Int()),
			End:   int(ch.Get("end").Int()),
			Root:  int(ch.Get("end").Int()) - 1,
		}
		if root.Exists() {
			sp.Root = int(root.Int())
		}
		spans = append(spans, sp)
		return true
	})
	result.NounChunks = buildChunks(result.Tokens, spans)

	return result, nil
}
