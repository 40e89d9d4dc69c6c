package sentiment

import (
	"context"
	"fmt"

	"github.com/athapong/docinsight/services"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const llmScorerPrompt = `Rate the overall sentiment of the user's %s text.
Answer with one JSON object {"compound": <number>} where the number is in [-1, 1],
-1 is most negative, 0 is neutral and 1 is most positive.`

// LLMScorer asks an OpenAI-compatible model for a compound score
type LLMScorer struct {
	chat     *services.ChatClient
	language string
}

func NewLLMScorer(chat *services.ChatClient, language string) *LLMScorer {
	return &LLMScorer{chat: chat, language: language}
}

func (s *LLMScorer) Score(ctx context.Context, text string) (float64, error) {
	content, err := s.chat.CompleteJSON(ctx, fmt.Sprintf(llmScorerPrompt, s.language), text)
	if err != nil {
		return 0, err
	}

	compound := gjson.Get(content, "compound")
	if !compound.Exists() || compound.Type != gjson.Number {
		return 0, errors.Errorf("model response has no numeric compound score: %q", content)
	}
	return compound.Float(), nil
}
