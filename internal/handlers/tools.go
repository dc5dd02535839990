package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dateadded/pkg/security"
	"dateadded/pkg/timestamp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DateAddedOps is the core surface the tools call once per request.
type DateAddedOps interface {
	GetDateAdded(path string) (time.Time, bool, error)
	SetDateAdded(path string, v timestamp.Value) error
}

// ToolHandlers provides MCP tool implementations for date-added operations
type ToolHandlers struct {
	pathValidator *security.PathValidator
	ops           DateAddedOps
	logger        *slog.Logger
}

// NewToolHandlers creates a new tool handlers instance
func NewToolHandlers(pathValidator *security.PathValidator, ops DateAddedOps, logger *slog.Logger) *ToolHandlers {
	return &ToolHandlers{
		pathValidator: pathValidator,
		ops:           ops,
		logger:        logger,
	}
}

// RegisterTools registers all date-added tools with the MCP server
func (th *ToolHandlers) RegisterTools(srv *server.MCPServer) error {
	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{th.createGetDateAddedTool(), th.handleGetDateAdded},
		{th.createSetDateAddedTool(), th.handleSetDateAdded},
		{th.createListAllowedDirectoriesTool(), th.handleListAllowedDirectories},
	}

	for _, tool := range tools {
		srv.AddTool(tool.tool, tool.handler)
		th.logger.Debug("Tool registered successfully", "tool", tool.tool.Name)
	}

	th.logger.Info("All date-added tools registered successfully", "count", len(tools))
	return nil
}

// Tool creation methods

func (th *ToolHandlers) createGetDateAddedTool() mcp.Tool {
	return mcp.NewTool("get_date_added",
		mcp.WithDescription("Read the 'date added' timestamp of a file or directory, the moment "+
			"it was added to its containing directory (kMDItemDateAdded). Returns the timestamp in "+
			"ISO-8601 local time at seconds precision, or a notice when the filesystem does "+
			"not track the attribute for the path. Symlinks are read themselves, not their "+
			"targets. Only works within allowed directories."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file or directory")))
}

func (th *ToolHandlers) createSetDateAddedTool() mcp.Tool {
	return mcp.NewTool("set_date_added",
		mcp.WithDescription("Set the 'date added' timestamp of a file or directory "+
			"(kMDItemDateAdded). The timestamp is ISO-8601 text, e.g. 2024-01-15T21:20:37; "+
			"timestamps without a zone are local time and fractional seconds are floored. "+
			"Symlinks are written themselves, not their targets. Only works within allowed "+
			"directories."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file or directory")),
		mcp.WithString("timestamp", mcp.Required(), mcp.Description("ISO-8601 timestamp to set")))
}

func (th *ToolHandlers) createListAllowedDirectoriesTool() mcp.Tool {
	return mcp.NewTool("list_allowed_directories",
		mcp.WithDescription("List the directories this server is allowed to operate in."))
}

// Tool handler methods

func (th *ToolHandlers) handleGetDateAdded(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errRes := getArguments(req)
	if errRes != nil {
		return errRes, nil
	}

	path, errRes := getRequiredString(args, "path")
	if errRes != nil {
		return errRes, nil
	}

	validPath, err := th.pathValidator.ValidatePath(path)
	if err != nil {
		th.logger.Warn("Path validation failed", "path", path, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}

	t, ok, err := th.ops.GetDateAdded(validPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("date added not tracked: %s", path)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s,%s", timestamp.Format(t), path)), nil
}

func (th *ToolHandlers) handleSetDateAdded(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errRes := getArguments(req)
	if errRes != nil {
		return errRes, nil
	}

	path, errRes := getRequiredString(args, "path")
	if errRes != nil {
		return errRes, nil
	}

	ts, errRes := getRequiredString(args, "timestamp")
	if errRes != nil {
		return errRes, nil
	}

	validPath, err := th.pathValidator.ValidatePath(path)
	if err != nil {
		th.logger.Warn("Path validation failed", "path", path, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}

	if err := th.ops.SetDateAdded(validPath, timestamp.Text(ts)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s", err.Error())), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully set date added on %s to %s", path, ts)), nil
}

func (th *ToolHandlers) handleListAllowedDirectories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirs := th.pathValidator.GetAllowedDirectories()
	return mcp.NewToolResultText(fmt.Sprintf("Allowed directories:\n%s", strings.Join(dirs, "\n"))), nil
}
