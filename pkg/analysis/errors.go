package analysis

import (
	"errors"
	"fmt"
)

// Error categories. Every StageError matches exactly one of them with errors.Is.
var (
	ErrRead       = errors.New("read error")
	ErrAnnotation = errors.New("annotation error")
	ErrScore      = errors.New("score error")
	ErrWrite      = errors.New("write error")
	ErrRender     = errors.New("render error")
)

// StageError is a fatal pipeline failure carrying its category and cause
type StageError struct {
	Kind error
	Op   string
	Err  error
}

func (e *StageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newStageError(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) && se.Kind == kind {
		return err
	}
	return &StageError{Kind: kind, Op: op, Err: err}
}

// ReadError wraps err as an input read failure
func ReadError(op string, err error) error { return newStageError(ErrRead, op, err) }

// AnnotationError wraps err as an annotator failure
func AnnotationError(op string, err error) error { return newStageError(ErrAnnotation, op, err) }

// ScoreError wraps err as a sentiment scorer failure
func ScoreError(op string, err error) error { return newStageError(ErrScore, op, err) }

// WriteError wraps err as an artifact write failure
func WriteError(op string, err error) error { return newStageError(ErrWrite, op, err) }

// RenderError wraps err as a chart rendering failure
func RenderError(op string, err error) error { return newStageError(ErrRender, op, err) }

// Kind returns the category sentinel of err, or nil when err is not a StageError
func Kind(err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return nil
}
