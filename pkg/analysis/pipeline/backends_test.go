package pipeline

import (
	"testing"

	"github.com/athapong/docinsight/pkg/analysis/annotators"
	"github.com/athapong/docinsight/pkg/analysis/sentiment"
	"github.com/athapong/docinsight/pkg/config"
)

func TestNewBackends(t *testing.T) {
	cfg := &config.Config{
		Language:         "pt",
		AnnotatorBackend: annotators.BackendProse,
		ScorerBackend:    sentiment.BackendVader,
	}

	b, err := NewBackends(cfg, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()

	if _, ok := b.Annotator.(*annotators.ProseAnnotator); !ok {
		t.Errorf("expected prose annotator, got %T", b.Annotator)
	}
	if _, ok := b.Scorer.(*sentiment.VaderScorer); !ok {
		t.Errorf("expected vader scorer, got %T", b.Scorer)
	}
	if !b.Stopwords.IsStopword("de") {
		t.Error("expected portuguese stopwords")
	}
}

func TestNewBackendsErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown language", config.Config{Language: "xx"}},
		{"unknown annotator", config.Config{Language: "pt", AnnotatorBackend: "nope"}},
		{"unknown scorer", config.Config{Language: "pt", AnnotatorBackend: "prose", ScorerBackend: "nope"}},
		{"llm without key or url", config.Config{Language: "pt", AnnotatorBackend: "llm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBackends(&tt.cfg, quietLogger()); err == nil {
				t.Error("expected error")
			}
		})
	}
}
