package analysis

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

type fakeAnnotator struct {
	result *Annotation
	err    error
}

func (f *fakeAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	return f.result, f.err
}

func (f *fakeAnnotator) Labels() Labels { return DefaultLabels }

type fixedScorer struct {
	score float64
	err   error
}

func (s fixedScorer) Score(ctx context.Context, text string) (float64, error) {
	return s.score, s.err
}

func TestRankTieBreakByFirstOccurrence(t *testing.T) {
	m := NewFrequencyMap()
	for _, f := range []string{"b", "a", "c", "a", "b", "d"} {
		m.Add(f)
	}

	got := Rank(m, 10)
	want := RankedList{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRankTruncates(t *testing.T) {
	m := NewFrequencyMap()
	for i := 0; i < 25; i++ {
		m.Add(string(rune('a' + i)))
	}
	m.Add("m")

	got := Rank(m, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(got))
	}
	if got[0].Feature != "m" || got[0].Count != 2 {
		t.Errorf("expected m first, got %v", got[0])
	}
	if got[1].Feature != "a" {
		t.Errorf("expected a second, got %v", got[1])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Errorf("list not descending at %d: %v", i, got)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(NewFrequencyMap(), 10); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestExtractorsCountMatchingItems(t *testing.T) {
	a := &Annotation{
		Tokens: []Token{
			{Text: "maria", Lemma: "maria", IsAlpha: true},
			{Text: "foi", Lemma: "ir", IsAlpha: true},
			{Text: "a", Lemma: "o", IsAlpha: true, IsStop: true},
			{Text: "2020", Lemma: "2020"},
			{Text: "maria", Lemma: "maria", IsAlpha: true},
		},
		Entities: []Entity{
			{Text: "maria", Label: "PERSON"},
			{Text: "lisboa", Label: "LOCATION"},
			{Text: "maria", Label: "PERSON"},
			{Text: "2020", Label: "DATE"},
			{Text: "camões", Label: "MISC"},
		},
		NounChunks: []NounChunk{
			{Text: "a viagem", TokenCount: 2, RootIsAlpha: true, HasStopword: true},
			{Text: "lisboa", TokenCount: 1, RootIsAlpha: true},
			{Text: "grande viagem", TokenCount: 2, RootIsAlpha: true},
			{Text: "2020", TokenCount: 1},
		},
	}

	f := Extract(a, DefaultLabels)

	tests := []struct {
		category Category
		total    int
		distinct int
	}{
		{People, 2, 1},
		{Places, 1, 1},
		{Organizations, 0, 0},
		{Dates, 1, 1},
		{Lemmas, 3, 2},
		{MultiWordExpressions, 2, 2},
		{Keyphrases, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			m := f[tt.category]
			if m.Total() != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, m.Total())
			}
			if m.Len() != tt.distinct {
				t.Errorf("expected %d distinct, got %d", tt.distinct, m.Len())
			}
		})
	}

	if got := f[Lemmas].Count("ir"); got != 1 {
		t.Errorf("expected lemma ir counted once, got %d", got)
	}
	if got := f[Keyphrases].Count("a viagem"); got != 0 {
		t.Errorf("chunk with stopword must not be a keyphrase")
	}
}

func TestExtractUsesAnnotatorLabels(t *testing.T) {
	a := &Annotation{Entities: []Entity{
		{Text: "maria", Label: "PER"},
		{Text: "lisboa", Label: "LOC"},
		{Text: "maria", Label: "PERSON"},
	}}
	f := Extract(a, Labels{Person: "PER", Location: "LOC", Organization: "ORG", Date: "DATE"})
	if f[People].Total() != 1 {
		t.Errorf("expected only PER entities, got %v", f[People].Entries())
	}
	if f[Places].Count("lisboa") != 1 {
		t.Errorf("expected lisboa under LOC")
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Sentiment
	}{
		{0.05, Positive},
		{0.6, Positive},
		{1, Positive},
		{-0.05, Negative},
		{-1, Negative},
		{0.0, Neutral},
		{0.049, Neutral},
		{-0.049, Neutral},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyTextErrors(t *testing.T) {
	ctx := context.Background()

	if _, _, err := ClassifyText(ctx, fixedScorer{err: errors.New("down")}, "x"); !errors.Is(err, ErrScore) {
		t.Errorf("expected ErrScore, got %v", err)
	}
	if _, _, err := ClassifyText(ctx, fixedScorer{score: 1.5}, "x"); !errors.Is(err, ErrScore) {
		t.Errorf("expected ErrScore for out of range score, got %v", err)
	}

	label, score, err := ClassifyText(ctx, fixedScorer{score: 0.6}, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != Positive || score != 0.6 {
		t.Errorf("expected positive 0.6, got %s %v", label, score)
	}
}

func TestAnnotateRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	fa := &fakeAnnotator{result: &Annotation{}}

	if _, err := Annotate(ctx, fa, "   "); !errors.Is(err, ErrAnnotation) {
		t.Errorf("expected ErrAnnotation for empty text, got %v", err)
	}

	fa.err = errors.New("model not loaded")
	_, err := Annotate(ctx, fa, "texto")
	if !errors.Is(err, ErrAnnotation) {
		t.Errorf("expected ErrAnnotation, got %v", err)
	}
	if Kind(err) != ErrAnnotation {
		t.Errorf("expected kind ErrAnnotation, got %v", Kind(err))
	}
}

func TestStageErrorUnwrapsCause(t *testing.T) {
	err := WriteError("csv", fs.ErrPermission)
	if !errors.Is(err, ErrWrite) {
		t.Errorf("expected ErrWrite")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected cause to be preserved")
	}
	if errors.Is(err, ErrRead) {
		t.Errorf("write error must not match ErrRead")
	}
	if again := WriteError("xlsx", err); again != err {
		t.Errorf("rewrapping with the same kind should be a no-op")
	}
}

func TestCategoryArtifactNames(t *testing.T) {
	if got := Organizations.CSVFile(); got != "Organizacoes.csv" {
		t.Errorf("unexpected csv name %q", got)
	}
	if got := Keyphrases.ChartFile("livro"); got != "livro_palavraschave.png" {
		t.Errorf("unexpected chart name %q", got)
	}
	if got := People.ChartTitle("livro.txt"); got != "Top 10 Pessoas em livro.txt" {
		t.Errorf("unexpected title %q", got)
	}
	if c, ok := CategoryByKey("datas"); !ok || c != Dates {
		t.Errorf("expected datas to resolve to Dates")
	}
	if _, ok := CategoryByKey("graph"); ok {
		t.Errorf("unknown key must not resolve")
	}
}
