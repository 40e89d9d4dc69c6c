package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/athapong/docinsight/pkg/analysis"
)

// Summary is the persisted outcome of one document analysis
type Summary struct {
	Document  string                         `json:"document"`
	Sentiment analysis.Sentiment             `json:"sentiment"`
	Score     float64                        `json:"score"`
	Rankings  map[string]analysis.RankedList `json:"rankings"`
}

// NewSummary builds a summary keyed by category key. Every category is
// present, with an empty list when nothing was extracted.
func NewSummary(document string, sentiment analysis.Sentiment, score float64, ranked map[analysis.Category]analysis.RankedList) *Summary {
	rankings := make(map[string]analysis.RankedList, len(analysis.Categories))
	for _, c := range analysis.Categories {
		list := ranked[c]
		if list == nil {
			list = analysis.RankedList{}
		}
		rankings[c.Key()] = list
	}
	return &Summary{
		Document:  document,
		Sentiment: sentiment,
		Score:     score,
		Rankings:  rankings,
	}
}

// Ranking returns the list stored for c
func (s *Summary) Ranking(c analysis.Category) analysis.RankedList {
	return s.Rankings[c.Key()]
}

// ResultStore defines an interface for persisting analysis summaries
type ResultStore interface {
	// StoreResult persists a summary
	StoreResult(ctx context.Context, summary *Summary) error

	// LoadResult loads a summary from storage
	LoadResult(ctx context.Context) (*Summary, error)
}

// JSONResultStore implements ResultStore using a JSON file
type JSONResultStore struct {
	filePath string
}

// ResultFile is the summary file name for a document stem
func ResultFile(stem string) string {
	return stem + "_resultados.json"
}

// NewJSONResultStore creates a new JSON result store
func NewJSONResultStore(filePath string) *JSONResultStore {
	return &JSONResultStore{
		filePath: filePath,
	}
}

// Path returns the file backing the store
func (s *JSONResultStore) Path() string {
	return s.filePath
}

// StoreResult writes the summary as indented JSON
func (s *JSONResultStore) StoreResult(ctx context.Context, summary *Summary) error {
	if err := ctx.Err(); err != nil {
		return analysis.WriteError("store result", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return analysis.WriteError("create output dir", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return analysis.WriteError("encode result", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return analysis.WriteError("write "+filepath.Base(s.filePath), err)
	}
	return nil
}

// LoadResult reads a summary back from the JSON file
func (s *JSONResultStore) LoadResult(ctx context.Context) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
