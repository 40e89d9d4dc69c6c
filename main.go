package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athapong/docinsight/pkg/analysis/pipeline"
	"github.com/athapong/docinsight/pkg/config"
	"github.com/athapong/docinsight/prompts"
	"github.com/athapong/docinsight/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	enableSSE := flag.Bool("sse", false, "Enable SSE server")
	sseAddr := flag.String("sse-addr", ":8080", "Address for SSE server to listen on")
	sseBasePath := flag.String("sse-base-path", "/mcp", "Base path for SSE endpoints")
	flag.Parse()

	cfg, loaded := config.Load(*envFile)

	// stdout carries the stdio transport
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if !loaded {
		logger.Warnf("Env file %s not loaded, using environment only", *envFile)
	}

	backends, err := pipeline.NewBackends(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to set up analysis backends: %v", err)
	}
	defer backends.Close()

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"docinsight",
		"1.0.0",
		server.WithLogging(),
		server.WithPromptCapabilities(true),
		server.WithToolCapabilities(false),
	)

	tools.RegisterAnalysisTools(mcpServer, tools.NewAnalysisTools(backends, cfg.OutputDir, cfg.Language, cfg.TopN, logger))
	prompts.RegisterReportPrompt(mcpServer)

	// Check if SSE server should be enabled
	if *enableSSE || os.Getenv("ENABLE_SSE") == "true" {
		sseServer := server.NewSSEServer(
			mcpServer,
			server.WithBasePath(*sseBasePath),
			server.WithKeepAlive(true),
		)

		go func() {
			logger.Infof("Starting SSE server on %s with base path %s", *sseAddr, *sseBasePath)
			if err := sseServer.Start(*sseAddr); err != nil {
				logger.Fatalf("Failed to start SSE server: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigCh
		logger.Infof("Received signal %v, shutting down...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := sseServer.Shutdown(ctx); err != nil {
			logger.Errorf("Error during SSE server shutdown: %v", err)
		}
		logger.Info("SSE server shutdown complete")
	} else {
		if err := server.ServeStdio(mcpServer); err != nil {
			backends.Close()
			panic(fmt.Sprintf("Server error: %v", err))
		}
	}
}
