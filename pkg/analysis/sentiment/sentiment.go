package sentiment

import (
	"fmt"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/services"
)

// Backend names accepted by New
const (
	BackendVader = "vader"
	BackendLLM   = "llm"
)

// New builds the scorer named by backend
func New(backend string, chat *services.ChatClient, language string) (analysis.Scorer, error) {
	switch backend {
	case BackendVader, "":
		return NewVaderScorer(), nil
	case BackendLLM:
		if chat == nil {
			return nil, fmt.Errorf("llm scorer needs a chat client")
		}
		return NewLLMScorer(chat, language), nil
	default:
		return nil, fmt.Errorf("unknown scorer backend %q", backend)
	}
}
