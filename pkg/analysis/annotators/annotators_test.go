package annotators

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/pkg/analysis/stopwords"
	"github.com/athapong/docinsight/services"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestChunkByTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []chunkSpan
	}{
		{"simple", []string{"DT", "JJ", "NN", "VBD"}, []chunkSpan{{Start: 0, End: 3, Root: 2}}},
		{"compound", []string{"NNP", "NNP", "VBZ", "DT", "NN"}, []chunkSpan{{Start: 0, End: 2, Root: 1}, {Start: 3, End: 5, Root: 4}}},
		{"modifier after noun", []string{"DT", "NN", "DT", "NN"}, []chunkSpan{{Start: 0, End: 2, Root: 1}, {Start: 2, End: 4, Root: 3}}},
		{"trailing modifier dropped", []string{"NN", "VB", "JJ"}, []chunkSpan{{Start: 0, End: 1, Root: 0}}},
		{"no nouns", []string{"VB", "RB", "JJ"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkByTags(tt.tags)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestBuildChunks(t *testing.T) {
	tokens := []analysis.Token{
		{Text: "a", IsAlpha: true, IsStop: true},
		{Text: "grande", IsAlpha: true},
		{Text: "viagem", IsAlpha: true},
		{Text: "2020"},
	}
	chunks := buildChunks(tokens, []chunkSpan{
		{Start: 0, End: 3, Root: 2},
		{Start: 1, End: 3, Root: 2, Text: "grande viagem"},
		{Start: 3, End: 4, Root: 3},
		{Start: 2, End: 9, Root: 2},
	})

	if len(chunks) != 3 {
		t.Fatalf("expected out of range span to be dropped, got %v", chunks)
	}
	if chunks[0].Text != "a grande viagem" || chunks[0].TokenCount != 3 || !chunks[0].HasStopword || !chunks[0].RootIsAlpha {
		t.Errorf("unexpected first chunk %+v", chunks[0])
	}
	if chunks[1].HasStopword || chunks[1].TokenCount != 2 {
		t.Errorf("unexpected second chunk %+v", chunks[1])
	}
	if chunks[2].RootIsAlpha {
		t.Errorf("numeric root must not be alphabetic")
	}
}

const fakeWorker = `read cfg
echo '{"status":"ready","model":"fake","labels":["LOC","PER"]}'
while IFS= read -r line; do
  case "$line" in
    *boom*) echo '{"error":"boom"}' ;;
    *) echo '{"tokens":[{"text":"maria","lemma":"maria","is_alpha":true,"is_stop":false},{"text":"foi","lemma":"ir","is_alpha":true,"is_stop":false},{"text":"a","lemma":"o","is_alpha":true,"is_stop":true},{"text":"lisboa","lemma":"lisboa","is_alpha":true,"is_stop":false}],"entities":[{"text":"maria","label":"PER"},{"text":"lisboa","label":"LOC"}],"noun_chunks":[{"text":"a lisboa","start":2,"end":4,"root":3}],"processing_time_ms":3}' ;;
  esac
done
`

func writeWorker(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake worker needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "worker.sh")
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSpacyAnnotatorProtocol(t *testing.T) {
	script := writeWorker(t, fakeWorker)
	a := NewSpacyAnnotator(SpacyConfig{Python: "/bin/sh", Script: script}, quietLogger())
	defer a.Close()

	ctx := context.Background()
	res, err := a.Annotate(ctx, "maria foi a lisboa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Tokens) != 4 || len(res.Entities) != 2 || len(res.NounChunks) != 1 {
		t.Fatalf("unexpected annotation %+v", res)
	}
	if !res.NounChunks[0].HasStopword || res.NounChunks[0].TokenCount != 2 {
		t.Errorf("unexpected chunk %+v", res.NounChunks[0])
	}

	f := analysis.Extract(res, a.Labels())
	if f[analysis.People].Count("maria") != 1 || f[analysis.Places].Count("lisboa") != 1 {
		t.Errorf("spaCy labels not honored: %v %v", f[analysis.People].Entries(), f[analysis.Places].Entries())
	}

	if _, err := a.Annotate(ctx, "boom"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected worker error, got %v", err)
	}

	// the worker survives an error reply
	if _, err := a.Annotate(ctx, "maria"); err != nil {
		t.Errorf("expected worker to keep serving, got %v", err)
	}
}

func TestSpacyAnnotatorStopwordOverride(t *testing.T) {
	script := writeWorker(t, fakeWorker)
	list := stopwords.FromTerms("pt", []string{"foi"})
	a := NewSpacyAnnotator(SpacyConfig{Python: "/bin/sh", Script: script}, quietLogger()).WithStopwords(list)
	defer a.Close()

	res, err := a.Annotate(context.Background(), "maria foi a lisboa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Tokens[1].IsStop || res.Tokens[2].IsStop {
		t.Errorf("expected flags from override list, got %+v", res.Tokens)
	}
	if res.NounChunks[0].HasStopword {
		t.Errorf("chunk flags must follow the override list")
	}
}

func TestSpacyAnnotatorStartupFailure(t *testing.T) {
	script := writeWorker(t, "read cfg\necho '{\"status\":\"error\",\"error\":\"model not installed\"}'\n")

	a := NewSpacyAnnotator(SpacyConfig{Python: "/bin/sh", Script: script}, quietLogger())
	defer a.Close()
	if _, err := a.Annotate(context.Background(), "texto"); err == nil || !strings.Contains(err.Error(), "model not installed") {
		t.Errorf("expected startup error, got %v", err)
	}

	missing := NewSpacyAnnotator(SpacyConfig{Python: filepath.Join(t.TempDir(), "no-python"), Script: script}, quietLogger())
	if _, err := missing.Annotate(context.Background(), "texto"); err == nil {
		t.Errorf("expected error for missing interpreter")
	}
}

func TestSpacyAnnotatorExtractsEmbeddedScript(t *testing.T) {
	dir := t.TempDir()
	a := NewSpacyAnnotator(SpacyConfig{ScriptDir: dir}, quietLogger())
	path, err := a.scriptPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "noun_chunks") {
		t.Errorf("embedded worker script not written")
	}
}

func TestProseAnnotator(t *testing.T) {
	list := stopwords.FromTerms("en", []string{"the", "to"})
	a := NewProseAnnotator(list, quietLogger())

	res, err := a.Annotate(context.Background(), "Maria travelled to the old city of Lisbon in 2020")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Tokens) == 0 {
		t.Fatal("expected tokens")
	}
	for _, tok := range res.Tokens {
		if tok.Lemma != strings.ToLower(tok.Text) {
			t.Errorf("expected lower-cased lemma for %q, got %q", tok.Text, tok.Lemma)
		}
		if tok.IsStop != list.IsStopword(tok.Text) {
			t.Errorf("stopword flag mismatch for %q", tok.Text)
		}
		if tok.Text == "2020" && tok.IsAlpha {
			t.Errorf("number must not be alphabetic")
		}
	}
	if a.Labels().Organization != "" || a.Labels().Date != "" {
		t.Errorf("prose has no organization or date labels")
	}
}

func newChatServer(t *testing.T, content string) *services.ChatClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := services.OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"}
	client, err := services.NewOpenAIClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return services.NewChatClient(client, cfg)
}

func TestLLMAnnotator(t *testing.T) {
	payload := "```json\n" + `{
  "tokens": [
    {"text": "maria", "lemma": "maria", "is_alpha": true, "is_stop": false},
    {"text": "foi", "lemma": "ir", "is_alpha": true, "is_stop": false},
    {"text": "a", "lemma": "o", "is_alpha": true, "is_stop": true},
    {"text": "lisboa", "lemma": "lisboa", "is_alpha": true, "is_stop": false}
  ],
  "entities": [{"text": "maria", "label": "PERSON"}, {"text": "lisboa", "label": "LOCATION"}],
  "noun_chunks": [{"text": "a lisboa", "start": 2, "end": 4, "root": 3}]
}` + "\n```"

	a := NewLLMAnnotator(newChatServer(t, payload), "Portuguese", 0, quietLogger())
	res, err := a.Annotate(context.Background(), "maria foi a lisboa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := analysis.Extract(res, a.Labels())
	if f[analysis.People].Count("maria") != 1 || f[analysis.Places].Count("lisboa") != 1 {
		t.Errorf("unexpected entities %+v", res.Entities)
	}
	if f[analysis.Lemmas].Count("ir") != 1 {
		t.Errorf("unexpected lemmas %v", f[analysis.Lemmas].Entries())
	}
	if len(res.NounChunks) != 1 || !res.NounChunks[0].HasStopword {
		t.Errorf("unexpected chunks %+v", res.NounChunks)
	}
}

func TestLLMAnnotatorRejectsBadPayload(t *testing.T) {
	a := NewLLMAnnotator(newChatServer(t, "not json"), "Portuguese", 0, quietLogger())
	if _, err := a.Annotate(context.Background(), "maria"); err == nil {
		t.Errorf("expected error for invalid JSON")
	}

	b := NewLLMAnnotator(newChatServer(t, `{"entities": []}`), "Portuguese", 0, quietLogger())
	if _, err := b.Annotate(context.Background(), "maria"); err == nil {
		t.Errorf("expected error for missing tokens")
	}
}

func TestFactory(t *testing.T) {
	list := stopwords.FromTerms("pt", []string{"a"})

	if _, err := New(Options{Backend: "bogus"}); err == nil {
		t.Errorf("expected error for unknown backend")
	}
	if _, err := New(Options{Backend: BackendProse}); err == nil {
		t.Errorf("expected error for prose without stopwords")
	}
	if _, err := New(Options{Backend: BackendLLM}); err == nil {
		t.Errorf("expected error for llm without client")
	}

	a, err := New(Options{Backend: BackendProse, Stopwords: list, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := a.(*ProseAnnotator); !ok {
		t.Errorf("expected prose annotator, got %T", a)
	}

	s, err := New(Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Labels() != SpacyLabels {
		t.Errorf("expected spaCy as default backend")
	}
}
