package annotators

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed scripts/spacy_annotator.py
var spacyWorkerScript string

// SpacyLabels is the entity vocabulary of the spaCy Portuguese models
var SpacyLabels = analysis.Labels{
	Person:       "PER",
	Location:     "LOC",
	Organization: "ORG",
	Date:         "DATE",
}

// SpacyConfig configures the spaCy worker process
type SpacyConfig struct {
	Python    string // interpreter, defaults to python3
	Model     string // spaCy model name, defaults to pt_core_news_sm
	Script    string // worker script; empty extracts the embedded one into ScriptDir
	ScriptDir string
	MaxLength int // overrides nlp.max_length when > 0
}

// SpacyAnnotator delegates annotation to a long-lived spaCy worker speaking
// JSON lines over stdin and stdout.
type SpacyAnnotator struct {
	cfg       SpacyConfig
	logger    *logrus.Logger
	stopwords analysis.StopwordChecker

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *io.PipeWriter
}

type spacyRequest struct {
	Text string `json:"text"`
}

type spacyResponse struct {
	Tokens           []analysis.Token  `json:"tokens"`
	Entities         []analysis.Entity `json:"entities"`
	NounChunks       []chunkSpan       `json:"noun_chunks"`
	ProcessingTimeMS int               `json:"processing_time_ms"`
	Error            string            `json:"error,omitempty"`
}

type spacyReady struct {
	Status string   `json:"status"`
	Model  string   `json:"model"`
	Labels []string `json:"labels"`
	Error  string   `json:"error,omitempty"`
}

// NewSpacyAnnotator creates an annotator; the worker starts on first use
func NewSpacyAnnotator(cfg SpacyConfig, logger *logrus.Logger) *SpacyAnnotator {
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.Model == "" {
		cfg.Model = "pt_core_news_sm"
	}
	if cfg.ScriptDir == "" {
		cfg.ScriptDir = filepath.Join(os.TempDir(), "docinsight")
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &SpacyAnnotator{cfg: cfg, logger: logger}
}

// WithStopwords makes the annotator flag stopwords from checker instead of
// the model's own list.
func (s *SpacyAnnotator) WithStopwords(checker analysis.StopwordChecker) *SpacyAnnotator {
	s.stopwords = checker
	return s
}

// Labels returns SpacyLabels
func (s *SpacyAnnotator) Labels() analysis.Labels {
	return SpacyLabels
}

// Annotate sends text to the worker and waits for its annotation
func (s *SpacyAnnotator) Annotate(ctx context.Context, text string) (*analysis.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		if err := s.start(ctx); err != nil {
			return nil, err
		}
	}

	reqJSON, err := json.Marshal(spacyRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	reqJSON = append(reqJSON, '\n')
	if _, err := s.stdin.Write(reqJSON); err != nil {
		s.stop()
		return nil, errors.Wrap(err, "write request")
	}

	line, err := s.readLine(ctx)
	if err != nil {
		return nil, err
	}

	var resp spacyResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, errors.Wrap(err, "parse response")
	}
	if resp.Error != "" {
		return nil, errors.Errorf("spacy worker: %s", resp.Error)
	}

	s.logger.WithFields(logrus.Fields{
		"tokens":     len(resp.Tokens),
		"entities":   len(resp.Entities),
		"chunks":     len(resp.NounChunks),
		"process_ms": resp.ProcessingTimeMS,
	}).Debug("spaCy annotation received")

	applyStopwords(resp.Tokens, s.stopwords)
	return &analysis.Annotation{
		Tokens:     resp.Tokens,
		Entities:   resp.Entities,
		NounChunks: buildChunks(resp.Tokens, resp.NounChunks),
	}, nil
}

func (s *SpacyAnnotator) start(ctx context.Context) error {
	script, err := s.scriptPath()
	if err != nil {
		return err
	}

	cmd := exec.Command(s.cfg.Python, script)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return errors.Wrap(err, "stdout pipe")
	}
	stderr := s.logger.WriterLevel(logrus.DebugLevel)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stderr.Close()
		return errors.Wrapf(err, "start %s", s.cfg.Python)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = bufio.NewReaderSize(stdout, 1<<20)
	s.stderr = stderr

	config := map[string]interface{}{
		"model":      s.cfg.Model,
		"max_length": s.cfg.MaxLength,
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		s.stop()
		return errors.Wrap(err, "marshal config")
	}
	configJSON = append(configJSON, '\n')
	if _, err := stdin.Write(configJSON); err != nil {
		s.stop()
		return errors.Wrap(err, "send config")
	}

	line, err := s.readLine(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read ready message")
	}

	var ready spacyReady
	if err := json.Unmarshal(line, &ready); err != nil {
		s.stop()
		return errors.Wrap(err, "failed to parse ready message")
	}
	if ready.Status != "ready" {
		s.stop()
		if ready.Error != "" {
			return errors.Errorf("spacy worker failed to start: %s", ready.Error)
		}
		return errors.Errorf("unexpected startup status: %s", ready.Status)
	}

	s.logger.WithFields(logrus.Fields{
		"model":  ready.Model,
		"labels": ready.Labels,
	}).Info("spaCy worker ready")
	return nil
}

func (s *SpacyAnnotator) scriptPath() (string, error) {
	if s.cfg.Script != "" {
		return s.cfg.Script, nil
	}

	if err := os.MkdirAll(s.cfg.ScriptDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create script directory")
	}
	path := filepath.Join(s.cfg.ScriptDir, "spacy_annotator.py")
	if err := os.WriteFile(path, []byte(spacyWorkerScript), 0755); err != nil {
		return "", errors.Wrap(err, "failed to write worker script")
	}
	return path, nil
}

// readLine waits for one response line, killing the worker if ctx ends first
func (s *SpacyAnnotator) readLine(ctx context.Context) ([]byte, error) {
	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	reader := s.stdout
	go func() {
		line, err := reader.ReadBytes('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		s.stop()
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			s.stop()
			if r.err == io.EOF {
				return nil, errors.New("spacy worker exited")
			}
			return nil, errors.Wrap(r.err, "read worker output")
		}
		return r.line, nil
	}
}

func (s *SpacyAnnotator) stop() {
	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	if s.stderr != nil {
		s.stderr.Close()
	}
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil
	s.stderr = nil
}

// Close stops the worker process
func (s *SpacyAnnotator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
	return nil
}
