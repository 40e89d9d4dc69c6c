package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterReportPrompt(s *server.MCPServer) {
	prompt := mcp.NewPrompt("analysis_report",
		mcp.WithPromptDescription("Analyze a document and summarize its entities, topics and sentiment"),
		mcp.WithArgument("path", mcp.RequiredArgument(), mcp.ArgumentDescription("Path of the document to analyze")),
		mcp.WithArgument("focus", mcp.ArgumentDescription("Category to focus on, e.g. pessoas, locais or palavraschave")),
	)
	s.AddPrompt(prompt, analysisReportHandler)
}

func analysisReportHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	path := request.Params.Arguments["path"]
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	text := fmt.Sprintf("Use the analyze_document tool on %s, then write a short report covering the overall sentiment and the most frequent people, places, organizations, keyphrases and dates.", path)
	if focus := request.Params.Arguments["focus"]; focus != "" {
		text += fmt.Sprintf(" Give particular attention to the %s category.", focus)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Analysis report for %s", path),
		Messages: []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	}, nil
}
