package server

import (
	"context"
	"fmt"
	"log/slog"

	"dateadded/internal/handlers"
	"dateadded/pkg/config"
	"dateadded/pkg/dateadded"
	"dateadded/pkg/security"

	"github.com/mark3labs/mcp-go/server"
)

// Server exposes date-added operations as MCP tools over stdio
type Server struct {
	mcpServer     *server.MCPServer
	toolHandlers  *handlers.ToolHandlers
	pathValidator *security.PathValidator
	client        *dateadded.Client
	logger        *slog.Logger
	config        *config.Config
}

// New creates a new server instance with all necessary components
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	logger.Info("Creating date-added MCP server",
		"name", cfg.Server.Name,
		"version", cfg.Server.Version,
		"allowed_dirs_count", len(cfg.AllowedDirectories))

	pathValidator := security.NewPathValidator(cfg.AllowedDirectories, logger)
	client := dateadded.NewClient(logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
	)

	toolHandlers := handlers.NewToolHandlers(pathValidator, client, logger)

	if err := toolHandlers.RegisterTools(mcpServer); err != nil {
		logger.Error("Failed to register tools", "error", err)
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	srv := &Server{
		mcpServer:     mcpServer,
		toolHandlers:  toolHandlers,
		pathValidator: pathValidator,
		client:        client,
		logger:        logger,
		config:        cfg,
	}

	logger.Info("Server created successfully", "transport", cfg.Server.Transport)

	return srv, nil
}

// Start begins serving MCP requests via stdio
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}

	s.logger.Info("Starting MCP server",
		"allowed_directories", s.pathValidator.GetAllowedDirectories())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		s.logger.Error("Failed to serve stdio", "error", err)
		return fmt.Errorf("failed to serve stdio: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}

	s.logger.Info("Shutting down MCP server")

	// The MCP library has no explicit shutdown; the stdio transport closes
	// when the context is cancelled.

	s.logger.Info("MCP server shutdown complete")
	return nil
}

// GetAllowedDirectories returns the allowed directories for this server
func (s *Server) GetAllowedDirectories() []string {
	return s.pathValidator.GetAllowedDirectories()
}
