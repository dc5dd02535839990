package handlers

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// getArguments extracts the argument map from the request and validates its presence.
func getArguments(req mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	args := req.Params.Arguments
	if args == nil {
		return nil, mcp.NewToolResultError("Invalid arguments format")
	}
	return args, nil
}

// getRequiredString extracts a required string parameter from the argument map.
func getRequiredString(args map[string]interface{}, key string) (string, *mcp.CallToolResult) {
	if val, ok := args[key].(string); ok && val != "" {
		return val, nil
	}
	msg := fmt.Sprintf("%s parameter is required", key)
	return "", mcp.NewToolResultError(msg)
}
