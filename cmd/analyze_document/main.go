package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/athapong/docinsight/pkg/analysis/metrics"
	"github.com/athapong/docinsight/pkg/analysis/pipeline"
	"github.com/athapong/docinsight/pkg/analysis/visualizer"
	"github.com/athapong/docinsight/pkg/config"
	"github.com/sirupsen/logrus"
)

var (
	inputFile     = flag.String("input", "", "Document to analyze (.txt, .md, .html, .pdf)")
	outputDir     = flag.String("output", "", "Output directory for the generated artifacts")
	envFile       = flag.String("env", ".env", "Path to environment file")
	logLevel      = flag.String("log-level", "", "Logging level (debug, info, warn, error)")
	annotator     = flag.String("annotator", "", "Annotator backend (spacy, prose, llm)")
	scorer        = flag.String("scorer", "", "Sentiment backend (vader, llm)")
	language      = flag.String("language", "", "Document language code")
	stopwordsFile = flag.String("stopwords", "", "YAML stopword list replacing the built-in one")
	metricsFile   = flag.String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	openReport    = flag.Bool("open", true, "Open the HTML report in the default browser")
)

func main() {
	flag.Parse()

	cfg, loaded := config.Load(*envFile)
	applyFlags(cfg)

	// Configure logging
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if !loaded {
		logger.Debugf("Env file %s not loaded", *envFile)
	}

	if *inputFile == "" {
		logger.Fatal("Input document must be specified")
	}

	backends, err := pipeline.NewBackends(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to set up analysis backends: %v", err)
	}

	var previewer visualizer.Previewer = visualizer.NopPreviewer{}
	if cfg.OpenReport {
		previewer = visualizer.NewBrowserPreviewer(logger.WriterLevel(logrus.DebugLevel))
	}

	p, err := pipeline.New(pipeline.Options{
		Annotator: backends.Annotator,
		Scorer:    backends.Scorer,
		OutputDir: cfg.OutputDir,
		Language:  cfg.Language,
		TopN:      cfg.TopN,
		Previewer: previewer,
		Logger:    logger,
	})
	if err != nil {
		backends.Close()
		logger.Fatalf("Failed to create pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	res, runErr := p.Run(ctx, *inputFile)
	stop()
	backends.Close()

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Errorf("Failed to write metrics file: %v", err)
		} else {
			logger.Infof("Metrics saved to %s", cfg.MetricsFile)
		}
	}

	if runErr != nil {
		logger.Fatalf("Analysis failed: %v", runErr)
	}

	fmt.Println(renderSummary(res))
	logger.Infof("Report saved to %s", res.Artifacts.Report)
}

// applyFlags lets explicitly set flags override env configuration
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.OutputDir = *outputDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "annotator":
			cfg.AnnotatorBackend = *annotator
		case "scorer":
			cfg.ScorerBackend = *scorer
		case "language":
			cfg.Language = *language
		case "stopwords":
			cfg.StopwordsFile = *stopwordsFile
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "open":
			cfg.OpenReport = *openReport
		}
	})
}
