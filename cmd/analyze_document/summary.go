package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/athapong/docinsight/pkg/analysis/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	sentimentColors = map[analysis.Sentiment]lipgloss.Color{
		analysis.Positive: lipgloss.Color("#3fb950"),
		analysis.Neutral:  lipgloss.Color("#8b949e"),
		analysis.Negative: lipgloss.Color("#f85149"),
	}
)

// renderSummary prints the top entries of every category as terminal tables
func renderSummary(res *pipeline.Result) string {
	var sb strings.Builder

	sentiment := lipgloss.NewStyle().Bold(true).Foreground(sentimentColors[res.Sentiment])
	sb.WriteString(fmt.Sprintf("%s %s (%.4f)\n",
		titleStyle.Render("Sentimento Geral:"), sentiment.Render(string(res.Sentiment)), res.Score))

	for _, c := range analysis.Categories {
		list := res.Ranked[c]
		sb.WriteString("\n" + titleStyle.Render(c.ChartTitle(res.Document)) + "\n")

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Item", "Contagem")
		for i, e := range list {
			t.Row(strconv.Itoa(i+1), e.Feature, strconv.Itoa(e.Count))
		}
		sb.WriteString(t.Render() + "\n")
	}
	return sb.String()
}
