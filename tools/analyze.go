package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/pkg/analysis/pipeline"
	"github.com/athapong/docinsight/pkg/analysis/visualizer"
	"github.com/athapong/docinsight/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// AnalysisTools serves document analysis over MCP. Runs are serialized since
// they share the annotator and may share an output directory.
type AnalysisTools struct {
	backends  *pipeline.Backends
	outputDir string
	language  string
	topN      int
	logger    *logrus.Logger
	mu        sync.Mutex
}

// NewAnalysisTools creates the tool set over shared backends
func NewAnalysisTools(backends *pipeline.Backends, outputDir, language string, topN int, logger *logrus.Logger) *AnalysisTools {
	return &AnalysisTools{
		backends:  backends,
		outputDir: outputDir,
		language:  language,
		topN:      topN,
		logger:    logger,
	}
}

// RegisterAnalysisTools adds analyze_document and list_categories to s
func RegisterAnalysisTools(s *server.MCPServer, t *AnalysisTools) {
	analyzeTool := mcp.NewTool("analyze_document",
		mcp.WithDescription("Analyze a text, HTML or PDF document: extract people, places, organizations, lemmas, multi-word expressions, keyphrases and dates, classify overall sentiment and write CSV, XLSX, PNG chart and HTML report artifacts"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the document to analyze")),
		mcp.WithString("output_dir", mcp.Description("Directory for the generated artifacts (defaults to the server setting)")),
		mcp.WithBoolean("open", mcp.Description("Open the HTML report in the default browser when done")),
	)
	s.AddTool(analyzeTool, util.ErrorGuard(t.analyzeHandler))

	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List the feature categories and the artifact names produced for each"),
	)
	s.AddTool(categoriesTool, util.ErrorGuard(t.listCategoriesHandler))
}

func (t *AnalysisTools) analyzeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := os.Stat(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", path)), nil
	}

	var previewer visualizer.Previewer = visualizer.NopPreviewer{}
	if request.GetBool("open", false) {
		previewer = visualizer.NewBrowserPreviewer(io.Discard)
	}

	p, err := pipeline.New(pipeline.Options{
		Annotator: t.backends.Annotator,
		Scorer:    t.backends.Scorer,
		OutputDir: request.GetString("output_dir", t.outputDir),
		Language:  t.language,
		TopN:      t.topN,
		Previewer: previewer,
		Logger:    t.logger,
	})
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	res, err := p.Run(ctx, path)
	t.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	var sb strings.Builder
	if err := res.WriteSummary(&sb); err != nil {
		return nil, err
	}
	sb.WriteString("\nArtifacts:\n")
	for _, artifact := range res.Artifacts.CSV {
		sb.WriteString("- " + artifact + "\n")
	}
	sb.WriteString("- " + res.Artifacts.Workbook + "\n")
	for _, artifact := range res.Artifacts.Charts {
		sb.WriteString("- " + artifact + "\n")
	}
	sb.WriteString("- " + res.Artifacts.Summary + "\n")
	sb.WriteString("- " + res.Artifacts.Report + "\n")

	return mcp.NewToolResultText(sb.String()), nil
}

func (t *AnalysisTools) listCategoriesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("Categories:\n")
	for _, c := range analysis.Categories {
		sb.WriteString(fmt.Sprintf("- %s (%s): csv=%s sheet=%s chart=<stem>_%s.png\n",
			c.Name(), c.String(), c.CSVFile(), c.Name(), c.Key()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
