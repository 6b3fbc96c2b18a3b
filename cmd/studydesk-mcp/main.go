package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/studydesk/internal/app"
	"github.com/ternarybob/studydesk/internal/common"
)

func main() {
	defer common.RecoverWithCrashFile()

	var configFiles []string
	if configPath := os.Getenv("STUDYDESK_CONFIG"); configPath != "" {
		configFiles = append(configFiles, configPath)
	} else if _, err := os.Stat("studydesk.toml"); err == nil {
		configFiles = append(configFiles, "studydesk.toml")
	}

	config, err := common.LoadFromFiles(nil, configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	common.SetupCrashDir(config)

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"studydesk",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Library tools
	mcpServer.AddTool(createListDocumentsTool(), handleListDocuments(application.Store, logger))
	mcpServer.AddTool(createGetDocumentTool(), handleGetDocument(application.Store, logger))
	mcpServer.AddTool(createListAnnotationsTool(), handleListAnnotations(application.Store, logger))
	mcpServer.AddTool(createSearchTool(), handleSearch(application.Search, logger))

	// Meeting tools
	mcpServer.AddTool(createListMeetingNotesTool(), handleListMeetingNotes(application.Store, logger))
	mcpServer.AddTool(createGetScheduleTool(), handleGetSchedule(application.Store, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error().Err(err).Msg("MCP server failed")
	}
}
