package cli

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/phpscope/internal/export"
	"github.com/mvp-joe/phpscope/internal/scan"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run phpscope as an MCP server on stdio",
	Long: `Serve the scanner over the Model Context Protocol. Exposes one tool,
php_scan_file, which scans a PHP file and returns the JSON symbol report.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	s := server.NewMCPServer(
		"phpscope",
		Version,
		server.WithToolCapabilities(true),
	)
	addScanFileTool(s)

	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// addScanFileTool registers the php_scan_file tool with an MCP server.
func addScanFileTool(s *server.MCPServer) {
	tool := mcp.NewTool(
		"php_scan_file",
		mcp.WithDescription("Scan a single PHP source file and return a structured report of every symbol it declares: constants, functions, interfaces, traits, and classes with their members, resolved types, documentation, and modifiers."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PHP file to scan")),
	)

	s.AddTool(tool, scanFileHandler)
}

func scanFileHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	path, ok := argsMap["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	report, err := scan.ExportFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	out, err := export.JSON(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
