package visualizer

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/athapong/docinsight/pkg/analysis"
)

// ReportFile is the name of the assembled report page
const ReportFile = "resultados_analise.html"

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Resultados da Análise</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 20px;
        }
        h1 {
            text-align: center;
            margin-bottom: 30px;
        }
        h2 {
            margin-top: 50px;
            margin-bottom: 10px;
        }
        img {
            display: block;
            margin-left: auto;
            margin-right: auto;
            margin-top: 20px;
            max-width: 80%;
            height: auto;
        }
    </style>
</head>
<body>
    <h1>Sentimento Geral: {{.Sentiment}}</h1>
{{- range .Images}}
    <h2>{{.Title}}</h2>
    <img src="{{.Src}}" alt="{{.Title}}"><br><br>
{{- end}}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// ReportImage is one chart section of the report
type ReportImage struct {
	Title string
	Src   string
}

// ReportPage is the static summary page of one run
type ReportPage struct {
	Sentiment analysis.Sentiment
	Images    []ReportImage
}

// Render writes the page HTML to w
func (p ReportPage) Render(w io.Writer) error {
	return reportTmpl.Execute(w, p)
}

// CollectCharts lists the category charts of stem found in dir, sorted by
// file name. Files of other documents or unknown categories are ignored.
func CollectCharts(dir, stem string) ([]ReportImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	prefix := stem + "_"
	images := make([]ReportImage, 0, len(analysis.Categories))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".png") {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".png")
		if _, ok := analysis.CategoryByKey(key); !ok {
			continue
		}
		images = append(images, ReportImage{
			Title: strings.ReplaceAll(strings.TrimSuffix(name, ".png"), "_", " "),
			Src:   name,
		})
	}
	return images, nil
}

// WriteReport assembles the page for stem from the charts in dir
func WriteReport(dir, stem string, sentiment analysis.Sentiment) (string, error) {
	images, err := CollectCharts(dir, stem)
	if err != nil {
		return "", analysis.WriteError("scan output dir", err)
	}

	var buf bytes.Buffer
	if err := (ReportPage{Sentiment: sentiment, Images: images}).Render(&buf); err != nil {
		return "", analysis.WriteError("render report", err)
	}

	path := filepath.Join(dir, ReportFile)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", analysis.WriteError("write "+ReportFile, err)
	}
	return path, nil
}
