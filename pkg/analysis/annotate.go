package analysis

import (
	"context"
	"errors"
	"strings"
)

var errEmptyText = errors.New("empty text")

// Annotate runs a over text, rejecting empty input. Failures are AnnotationErrors.
func Annotate(ctx context.Context, a Annotator, text string) (*Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, AnnotationError("annotate", errEmptyText)
	}
	res, err := a.Annotate(ctx, text)
	if err != nil {
		return nil, AnnotationError("annotate", err)
	}
	if res == nil {
		return nil, AnnotationError("annotate", errors.New("annotator returned no result"))
	}
	return res, nil
}
