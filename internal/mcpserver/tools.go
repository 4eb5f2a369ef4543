package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("grid-get",
			mcp.WithDescription("Get the grid: dimensions, labels, active count and cell values as JSON"),
		),
		s.handleGridGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("cell-get",
			mcp.WithDescription("Get the value of one cell"),
			mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index")),
			mcp.WithNumber("col", mcp.Required(), mcp.Description("Zero-based column index")),
		),
		s.handleCellGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("cell-set",
			mcp.WithDescription("Set one cell. Listeners are notified when the value changes"),
			mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index")),
			mcp.WithNumber("col", mcp.Required(), mcp.Description("Zero-based column index")),
			mcp.WithBoolean("value", mcp.Required(), mcp.Description("New cell value")),
			mcp.WithBoolean("silent", mcp.Description("Skip change notification (default: false)")),
		),
		s.handleCellSet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("cell-toggle",
			mcp.WithDescription("Flip one cell"),
			mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row index")),
			mcp.WithNumber("col", mcp.Required(), mcp.Description("Zero-based column index")),
			mcp.WithBoolean("silent", mcp.Description("Skip change notification (default: false)")),
		),
		s.handleCellToggle,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("grid-fill",
			mcp.WithDescription("Set every cell to the same value"),
			mcp.WithBoolean("value", mcp.Required(), mcp.Description("Value for every cell")),
			mcp.WithBoolean("silent", mcp.Description("Skip change notification (default: false)")),
		),
		s.handleGridFill,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("grid-reset",
			mcp.WithDescription("Clear every cell without notifying listeners"),
		),
		s.handleGridReset,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("grid-set-data",
			mcp.WithDescription("Replace the whole matrix. Rows must be non-empty and of equal length"),
			mcp.WithArray("data", mcp.Required(),
				mcp.Description("Rows of boolean cell values"),
				mcp.Items(map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "boolean"},
				})),
			mcp.WithBoolean("silent", mcp.Description("Skip change notification (default: false)")),
		),
		s.handleGridSetData,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("grid-set-labels",
			mcp.WithDescription("Replace row and column labels. Labels of a new length resize and clear the grid"),
			mcp.WithArray("row_labels", mcp.Description("Row labels"), mcp.Items(map[string]any{"type": "string"})),
			mcp.WithArray("col_labels", mcp.Description("Column labels"), mcp.Items(map[string]any{"type": "string"})),
		),
		s.handleGridSetLabels,
	)
}
