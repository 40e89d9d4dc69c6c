package analysis

import (
	"context"
)

// Token is a single annotated word of the normalized text
type Token struct {
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	IsAlpha bool   `json:"is_alpha"`
	IsStop  bool   `json:"is_stop"`
}

// Entity is a named-entity span tagged by the annotator
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// NounChunk is a noun-phrase span identified by the annotator
type NounChunk struct {
	Text        string `json:"text"`
	TokenCount  int    `json:"token_count"`
	RootIsAlpha bool   `json:"root_is_alpha"`
	HasStopword bool   `json:"has_stopword"`
}

// Annotation is the structured result of annotating one document
type Annotation struct {
	Tokens     []Token     `json:"tokens"`
	Entities   []Entity    `json:"entities"`
	NounChunks []NounChunk `json:"noun_chunks"`
}

// Labels holds the entity labels an annotator uses for the four entity
// categories. Extractors compare labels verbatim, no remapping.
type Labels struct {
	Person       string
	Location     string
	Organization string
	Date         string
}

// DefaultLabels is the generic label vocabulary
var DefaultLabels = Labels{
	Person:       "PERSON",
	Location:     "LOCATION",
	Organization: "ORGANIZATION",
	Date:         "DATE",
}

// Annotator turns normalized text into an Annotation
type Annotator interface {
	// Annotate runs the linguistic annotator over text
	Annotate(ctx context.Context, text string) (*Annotation, error)

	// Labels returns the entity vocabulary produced by Annotate
	Labels() Labels
}

// Scorer returns a compound polarity score in [-1, 1] for text
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// StopwordChecker reports whether a word is a stopword for the configured language
type StopwordChecker interface {
	IsStopword(word string) bool
}
