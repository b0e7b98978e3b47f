package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// toolHandler holds the dependencies of the tool handlers.
type toolHandler struct {
	store  *state.Store
	logger *logger.Logger
}

// scorecardResult is the tool view of the state.
type scorecardResult struct {
	State    contracts.State `json:"state"`
	Insights interface{}     `json:"insights"`
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *toolHandler) current() (*mcp.CallToolResult, error) {
	return jsonResult(scorecardResult{
		State:    h.store.Snapshot(),
		Insights: h.store.Insights(),
	})
}

func (h *toolHandler) handleGetScorecard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.current()
}

func (h *toolHandler) handleGetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.store.Insights())
}

func (h *toolHandler) handleUpdateSample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := request.GetString("page", "")
	if page == "" {
		return mcp.NewToolResultError("page is required"), nil
	}
	id, err := catalog.Parse(request.GetString("metric", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := contracts.ParseField(request.GetString("field", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	switch {
	case args["input"] != nil:
		err = h.store.UpdateSampleInput(page, id, field, request.GetString("input", ""))
	case args["value"] != nil:
		value, verr := request.RequireFloat("value")
		if verr != nil {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		err = h.store.UpdateSample(page, id, field, value)
	default:
		return mcp.NewToolResultError("either value or input is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}

	h.logger.WithFields(map[string]interface{}{
		"page":   page,
		"metric": id.String(),
		"field":  string(field),
	}).Debug("Sample updated via MCP")
	return h.current()
}

func (h *toolHandler) handleUpdateUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := catalog.Parse(request.GetString("metric", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	unit, err := request.RequireString("unit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.store.UpdateUnit(id, unit); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}
	return h.current()
}

func (h *toolHandler) handleUpdateLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := request.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := request.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.store.UpdateLabels(start, end); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update failed: %v", err)), nil
	}
	return h.current()
}

func (h *toolHandler) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.store.Reset(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	h.logger.Info("Scorecard reset via MCP")
	return h.current()
}
