package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/pkg/analysis/export"
	"github.com/athapong/docinsight/pkg/analysis/metrics"
	"github.com/athapong/docinsight/pkg/analysis/processors"
	"github.com/athapong/docinsight/pkg/analysis/storage"
	"github.com/athapong/docinsight/pkg/analysis/visualizer"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultOutputDir is used when Options.OutputDir is empty
const DefaultOutputDir = "output"

// Options configures one Pipeline. Annotator and Scorer are required.
type Options struct {
	Annotator analysis.Annotator
	Scorer    analysis.Scorer
	OutputDir string
	Language  string
	TopN      int
	// Previewer opens the report after a successful run. Nil skips the preview.
	Previewer visualizer.Previewer
	// ChartBatchSize bounds how many charts are drawn at once
	ChartBatchSize int
	Logger         *logrus.Logger
}

// Artifacts lists every file written by a run
type Artifacts struct {
	CSV      []string `json:"csv"`
	Workbook string   `json:"workbook"`
	Charts   []string `json:"charts"`
	Summary  string   `json:"summary"`
	Report   string   `json:"report"`
}

// Result is the outcome of analyzing one document
type Result struct {
	RunID     string                                    `json:"run_id"`
	Document  string                                    `json:"document"`
	Sentiment analysis.Sentiment                        `json:"sentiment"`
	Score     float64                                   `json:"score"`
	Features  analysis.Features                         `json:"-"`
	Ranked    map[analysis.Category]analysis.RankedList `json:"-"`
	Artifacts Artifacts                                 `json:"artifacts"`
}

// Pipeline runs the full analysis of one document at a time
type Pipeline struct {
	annotator analysis.Annotator
	scorer    analysis.Scorer
	outputDir string
	language  string
	topN      int
	previewer visualizer.Previewer
	charts    *visualizer.ChartRenderer
	batchSize int
	logger    *logrus.Logger
}

// New creates a pipeline from opts
func New(opts Options) (*Pipeline, error) {
	if opts.Annotator == nil {
		return nil, fmt.Errorf("pipeline requires an annotator")
	}
	if opts.Scorer == nil {
		return nil, fmt.Errorf("pipeline requires a sentiment scorer")
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = analysis.DefaultTopN
	}
	batchSize := opts.ChartBatchSize
	if batchSize <= 0 {
		batchSize = len(analysis.Categories)
	}
	previewer := opts.Previewer
	if previewer == nil {
		previewer = visualizer.NopPreviewer{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Pipeline{
		annotator: opts.Annotator,
		scorer:    opts.Scorer,
		outputDir: outputDir,
		language:  opts.Language,
		topN:      topN,
		previewer: previewer,
		charts:    visualizer.NewChartRenderer(outputDir),
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// OutputDir returns the directory artifacts are written to
func (p *Pipeline) OutputDir() string {
	return p.outputDir
}

// Run analyzes the document at path and writes every artifact. The first
// failing stage aborts the run; files already written are left in place.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	res := &Result{
		RunID:    uuid.New().String(),
		Document: filepath.Base(path),
	}
	log := p.logger.WithFields(logrus.Fields{
		"run_id":   res.RunID,
		"document": res.Document,
	})
	log.WithField("language", p.language).Info("Starting document analysis")

	if err := p.run(ctx, path, res, log); err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("Document analysis failed")
		return nil, err
	}
	metrics.RunsTotal.WithLabelValues("success").Inc()

	if err := p.previewer.Preview(res.Artifacts.Report); err != nil {
		log.WithError(err).Warn("Failed to open report preview")
	}

	log.WithField("report", res.Artifacts.Report).Info("Document analysis completed")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, path string, res *Result, log *logrus.Entry) error {
	var text string
	if err := p.stage(log, "normalize", func() (err error) {
		text, err = processors.NormalizeFile(ctx, path)
		return err
	}); err != nil {
		return err
	}

	var ann *analysis.Annotation
	if err := p.stage(log, "annotate", func() (err error) {
		ann, err = analysis.Annotate(ctx, p.annotator, text)
		return err
	}); err != nil {
		return err
	}

	_ = p.stage(log, "extract", func() error {
		res.Features = analysis.Extract(ann, p.annotator.Labels())
		for _, c := range analysis.Categories {
			m := res.Features[c]
			metrics.RecordFeatures(c.String(), m.Total(), m.Len())
		}
		return nil
	})

	_ = p.stage(log, "rank", func() error {
		res.Ranked = res.Features.RankAll(p.topN)
		return nil
	})
	p.logRankings(log, res.Ranked)

	if err := p.stage(log, "classify", func() (err error) {
		res.Sentiment, res.Score, err = analysis.ClassifyText(ctx, p.scorer, text)
		return err
	}); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"sentiment": res.Sentiment,
		"score":     res.Score,
	}).Info("Sentimento Geral")

	if err := p.stage(log, "csv", func() (err error) {
		res.Artifacts.CSV, err = export.WriteAllCSV(p.outputDir, res.Features)
		metrics.ArtifactsWritten.WithLabelValues("csv").Add(float64(len(res.Artifacts.CSV)))
		return err
	}); err != nil {
		return err
	}

	if err := p.stage(log, "workbook", func() (err error) {
		res.Artifacts.Workbook, err = export.WriteWorkbook(p.outputDir, res.Ranked)
		if err == nil {
			metrics.ArtifactsWritten.WithLabelValues("xlsx").Inc()
		}
		return err
	}); err != nil {
		return err
	}

	if err := p.stage(log, "charts", func() (err error) {
		res.Artifacts.Charts, err = p.renderCharts(log, res.Document, res.Ranked)
		metrics.ArtifactsWritten.WithLabelValues("png").Add(float64(len(res.Artifacts.Charts)))
		return err
	}); err != nil {
		return err
	}

	stem := visualizer.Stem(res.Document)
	if err := p.stage(log, "summary", func() error {
		store := storage.NewJSONResultStore(filepath.Join(p.outputDir, storage.ResultFile(stem)))
		summary := storage.NewSummary(res.Document, res.Sentiment, res.Score, res.Ranked)
		if err := store.StoreResult(ctx, summary); err != nil {
			return err
		}
		res.Artifacts.Summary = store.Path()
		metrics.ArtifactsWritten.WithLabelValues("json").Inc()
		return nil
	}); err != nil {
		return err
	}

	return p.stage(log, "report", func() (err error) {
		res.Artifacts.Report, err = visualizer.WriteReport(p.outputDir, stem, res.Sentiment)
		if err == nil {
			metrics.ArtifactsWritten.WithLabelValues("html").Inc()
		}
		return err
	})
}

// stage times fn and records its failure under the error category
func (p *Pipeline) stage(log *logrus.Entry, name string, fn func() error) error {
	timer := metrics.StageTimer(name)
	err := fn()
	timer.ObserveDuration()

	if err != nil {
		kind := "unknown"
		if k := analysis.Kind(err); k != nil {
			kind = k.Error()
		}
		metrics.StageErrors.WithLabelValues(name, kind).Inc()
		return err
	}
	log.WithField("stage", name).Debug("Stage completed")
	return nil
}

// renderCharts draws every category chart in bounded concurrent batches
func (p *Pipeline) renderCharts(log *logrus.Entry, document string, ranked map[analysis.Category]analysis.RankedList) ([]string, error) {
	stem := visualizer.Stem(document)
	categories := analysis.Categories
	paths := make([]string, len(categories))

	for i := 0; i < len(categories); i += p.batchSize {
		end := i + p.batchSize
		if end > len(categories) {
			end = len(categories)
		}

		errs := make(chan error, end-i)
		var wg sync.WaitGroup

		for j := i; j < end; j++ {
			wg.Add(1)
			go func(idx int, c analysis.Category) {
				defer wg.Done()

				path, err := p.charts.Render(c.ChartTitle(document), ranked[c], c.ChartFile(stem))
				if err != nil {
					log.WithError(err).WithField("category", c.String()).Error("Failed to render chart")
					errs <- err
					return
				}
				paths[idx] = path
			}(j, categories[j])
		}

		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

func (p *Pipeline) logRankings(log *logrus.Entry, ranked map[analysis.Category]analysis.RankedList) {
	for _, c := range analysis.Categories {
		list := ranked[c]
		items := make([]string, len(list))
		for i, e := range list {
			items[i] = fmt.Sprintf("%s (%d)", e.Feature, e.Count)
		}
		log.WithFields(logrus.Fields{
			"category": c.String(),
			"count":    len(list),
			"items":    items,
		}).Infof("Top %d %s", p.topN, c.Name())
	}
}

// WriteSummary writes a plain text listing of the rankings and sentiment
func (r *Result) WriteSummary(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Documento: %s\nSentimento Geral: %s (%.4f)\n", r.Document, r.Sentiment, r.Score); err != nil {
		return err
	}
	for _, c := range analysis.Categories {
		if _, err := fmt.Fprintf(w, "\n%s:\n", c.Name()); err != nil {
			return err
		}
		list := r.Ranked[c]
		if len(list) == 0 {
			if _, err := fmt.Fprintln(w, "  (vazio)"); err != nil {
				return err
			}
			continue
		}
		for i, e := range list {
			if _, err := fmt.Fprintf(w, "  %2d. %s: %d\n", i+1, e.Feature, e.Count); err != nil {
				return err
			}
		}
	}
	return nil
}
