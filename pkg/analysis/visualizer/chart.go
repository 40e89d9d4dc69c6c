package visualizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/athapong/docinsight/pkg/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartRenderer draws horizontal bar charts of ranked lists as PNG files
type ChartRenderer struct {
	outputDir string
	width     vg.Length
	height    vg.Length
	barWidth  vg.Length
}

// NewChartRenderer creates a renderer writing into outputDir
func NewChartRenderer(outputDir string) *ChartRenderer {
	return &ChartRenderer{
		outputDir: outputDir,
		width:     10 * vg.Inch,
		height:    6 * vg.Inch,
		barWidth:  vg.Points(20),
	}
}

// Render draws list with features on the y axis in list order and writes it
// to filename inside the output directory.
func (r *ChartRenderer) Render(title string, list analysis.RankedList, filename string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", analysis.WriteError("create output dir", err)
	}

	wt, err := r.draw(title, list)
	if err != nil {
		return "", analysis.RenderError(filename, err)
	}

	path := filepath.Join(r.outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", analysis.WriteError(filename, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return "", analysis.WriteError(filename, err)
	}
	if err := f.Close(); err != nil {
		return "", analysis.WriteError(filename, err)
	}
	return path, nil
}

func (r *ChartRenderer) draw(title string, list analysis.RankedList) (wt io.WriterTo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plot panicked: %v", rec)
		}
	}()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency"
	p.X.Min = 0

	if len(list) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(list.Counts()), r.barWidth)
		if err != nil {
			return nil, err
		}
		bars.Horizontal = true
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalY(list.Features()...)
	}

	return p.WriterTo(r.width, r.height, "png")
}

// RenderAll draws one chart per category for the document named filename
func (r *ChartRenderer) RenderAll(filename string, ranked map[analysis.Category]analysis.RankedList) ([]string, error) {
	stem := Stem(filename)
	paths := make([]string, 0, len(analysis.Categories))
	for _, c := range analysis.Categories {
		path, err := r.Render(c.ChartTitle(filename), ranked[c], c.ChartFile(stem))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
