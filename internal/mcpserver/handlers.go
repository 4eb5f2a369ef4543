package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/mark3labs/mcp-go/mcp"
)

// gridView is the JSON shape returned by grid-get.
type gridView struct {
	Name      string   `json:"name"`
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Active    int      `json:"active"`
	Data      [][]bool `json:"data"`
	RowLabels []string `json:"row_labels"`
	ColLabels []string `json:"col_labels"`
}

func errorText(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultText("error: " + fmt.Sprintf(format, args...))
}

// handleGridGet returns the whole grid as JSON.
func (s *Server) handleGridGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var view gridView
	err := s.exec.Exec(ctx, func(w *widget.Widget) {
		view = gridView{
			Name:      w.Name(),
			Rows:      w.Rows(),
			Cols:      w.Cols(),
			Active:    w.Count(),
			Data:      w.Snapshot(),
			RowLabels: slices.Clone(w.RowLabels()),
			ColLabels: slices.Clone(w.ColLabels()),
		}
	})
	if err != nil {
		return errorText("failed to read grid: %v", err), nil
	}

	out, err := json.Marshal(view)
	if err != nil {
		return errorText("failed to marshal grid: %v", err), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleCellGet returns "true" or "false" for one cell.
func (s *Server) handleCellGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	row, col, errResult := cellArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	var value, ok bool
	var rows, cols int
	err := s.exec.Exec(ctx, func(w *widget.Widget) {
		value, ok = w.Cell(row, col)
		rows, cols = w.Rows(), w.Cols()
	})
	if err != nil {
		return errorText("failed to read cell: %v", err), nil
	}
	if !ok {
		return outOfRange(row, col, rows, cols), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%t", value)), nil
}

// handleCellSet stores a value in one cell.
func (s *Server) handleCellSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	row, col, errResult := cellArgs(args)
	if errResult != nil {
		return errResult, nil
	}
	value, present, err := boolArg(args, "value")
	if err != nil {
		return errorText("%v", err), nil
	}
	if !present {
		return errorText("missing 'value' parameter"), nil
	}
	silent, _, err := boolArg(args, "silent")
	if err != nil {
		return errorText("%v", err), nil
	}

	var ok, changed bool
	var rows, cols int
	err = s.exec.Exec(ctx, func(w *widget.Widget) {
		_, ok = w.Cell(row, col)
		rows, cols = w.Rows(), w.Cols()
		changed = w.SetCell(row, col, value, silent)
	})
	if err != nil {
		return errorText("failed to set cell: %v", err), nil
	}
	if !ok {
		return outOfRange(row, col, rows, cols), nil
	}
	if !changed {
		return mcp.NewToolResultText(fmt.Sprintf("cell (%d, %d) unchanged", row, col)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("cell (%d, %d) set to %t", row, col, value)), nil
}

// handleCellToggle flips one cell.
func (s *Server) handleCellToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	row, col, errResult := cellArgs(args)
	if errResult != nil {
		return errResult, nil
	}
	silent, _, err := boolArg(args, "silent")
	if err != nil {
		return errorText("%v", err), nil
	}

	var toggled, value bool
	var rows, cols int
	err = s.exec.Exec(ctx, func(w *widget.Widget) {
		toggled = w.ToggleCell(row, col, silent)
		value, _ = w.Cell(row, col)
		rows, cols = w.Rows(), w.Cols()
	})
	if err != nil {
		return errorText("failed to toggle cell: %v", err), nil
	}
	if !toggled {
		return outOfRange(row, col, rows, cols), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("cell (%d, %d) is now %t", row, col, value)), nil
}

// handleGridFill sets every cell to one value.
func (s *Server) handleGridFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	value, present, err := boolArg(args, "value")
	if err != nil {
		return errorText("%v", err), nil
	}
	if !present {
		return errorText("missing 'value' parameter"), nil
	}
	silent, _, err := boolArg(args, "silent")
	if err != nil {
		return errorText("%v", err), nil
	}

	var cells int
	err = s.exec.Exec(ctx, func(w *widget.Widget) {
		w.Fill(value, silent)
		cells = w.Rows() * w.Cols()
	})
	if err != nil {
		return errorText("failed to fill grid: %v", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("filled %d cells with %t", cells, value)), nil
}

// handleGridReset clears the grid silently.
func (s *Server) handleGridReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.exec.Exec(ctx, func(w *widget.Widget) { w.Reset() }); err != nil {
		return errorText("failed to reset grid: %v", err), nil
	}
	return mcp.NewToolResultText("grid reset"), nil
}

// handleGridSetData replaces the matrix.
func (s *Server) handleGridSetData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	raw, ok := args["data"]
	if !ok {
		return errorText("missing 'data' parameter"), nil
	}
	data, err := parseData(raw)
	if err != nil {
		return errorText("%v", err), nil
	}
	silent, _, err := boolArg(args, "silent")
	if err != nil {
		return errorText("%v", err), nil
	}

	var replaced bool
	var rows, cols, active int
	err = s.exec.Exec(ctx, func(w *widget.Widget) {
		replaced = w.SetData(data, silent)
		rows, cols, active = w.Rows(), w.Cols(), w.Count()
	})
	if err != nil {
		return errorText("failed to set data: %v", err), nil
	}
	if !replaced {
		return errorText("data must be non-empty with rows of equal, non-zero length"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("grid replaced: %dx%d, %d active", rows, cols, active)), nil
}

// handleGridSetLabels replaces row and/or column labels.
func (s *Server) handleGridSetLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return errorText("no arguments provided"), nil
	}
	rowLabels, err := stringsArg(args, "row_labels")
	if err != nil {
		return errorText("%v", err), nil
	}
	colLabels, err := stringsArg(args, "col_labels")
	if err != nil {
		return errorText("%v", err), nil
	}
	if rowLabels == nil && colLabels == nil {
		return errorText("at least one of 'row_labels' or 'col_labels' is required"), nil
	}

	var res widget.UpdateResult
	var rows, cols int
	err = s.exec.Exec(ctx, func(w *widget.Widget) {
		res = w.SetLabels(rowLabels, colLabels)
		rows, cols = w.Rows(), w.Cols()
	})
	if err != nil {
		return errorText("failed to set labels: %v", err), nil
	}
	if res.DimensionsChanged {
		return mcp.NewToolResultText(fmt.Sprintf("labels updated, grid resized to %dx%d", rows, cols)), nil
	}
	return mcp.NewToolResultText("labels updated"), nil
}

func outOfRange(row, col, rows, cols int) *mcp.CallToolResult {
	return errorText("cell (%d, %d) is outside the %dx%d grid", row, col, rows, cols)
}

// cellArgs extracts the row and col parameters.
func cellArgs(args map[string]any) (row, col int, errResult *mcp.CallToolResult) {
	row, err := intArg(args, "row")
	if err != nil {
		return 0, 0, errorText("%v", err)
	}
	col, err = intArg(args, "col")
	if err != nil {
		return 0, 0, errorText("%v", err)
	}
	return row, col, nil
}

// intArg reads a required integer. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing '%s' parameter", key)
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("'%s' must be a number", key)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("'%s' must be an integer", key)
	}
	return int(f), nil
}

// boolArg reads an optional boolean.
func boolArg(args map[string]any, key string) (value, present bool, err error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, true, fmt.Errorf("'%s' must be a boolean", key)
	}
	return b, true, nil
}

// stringsArg reads an optional string array. Absent yields nil.
func stringsArg(args map[string]any, key string) ([]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'%s' is not an array", key)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("'%s' item %d is not a string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseData converts a JSON array of boolean arrays. Shape is validated by
// the widget.
func parseData(raw any) ([][]bool, error) {
	rowsRaw, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'data' is not an array")
	}
	data := make([][]bool, 0, len(rowsRaw))
	for r, rowRaw := range rowsRaw {
		cells, ok := rowRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an array", r)
		}
		row := make([]bool, 0, len(cells))
		for c, cell := range cells {
			b, ok := cell.(bool)
			if !ok {
				return nil, fmt.Errorf("cell (%d, %d) is not a boolean", r, c)
			}
			row = append(row, b)
		}
		data = append(data, row)
	}
	return data, nil
}
