// Package mcpserver exposes the live scorecard as Model Context Protocol tools.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// NewMCPServer configures the scorecard MCP server without starting it.
func NewMCPServer(store *state.Store, version string, log *logger.Logger) *server.MCPServer {
	if log == nil {
		log = logger.Nop()
	}

	s := server.NewMCPServer(
		"Core Vitals Scorecard",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		store:  store,
		logger: log.WithComponent("mcp"),
	}

	metricEnum := mcp.Enum(catalog.Keys()...)

	s.AddTool(mcp.NewTool("get_scorecard",
		mcp.WithDescription("Return the full scorecard: labels, units and every page's start/end samples."),
	), h.handleGetScorecard)

	s.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Return the best improvement, worst regression and average score change."),
	), h.handleGetInsights)

	s.AddTool(mcp.NewTool("update_sample",
		mcp.WithDescription("Set the start or end value of one page metric."),
		mcp.WithString("page", mcp.Description("Page name, e.g. 'Homepage'."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Metric id."), mcp.Required(), metricEnum),
		mcp.WithString("field", mcp.Description("Which period to edit."), mcp.Required(), mcp.Enum("start", "end")),
		mcp.WithNumber("value", mcp.Description("New value.")),
		mcp.WithString("input", mcp.Description("Raw editor text such as '2.4s'; its leading number is used.")),
	), h.handleUpdateSample)

	s.AddTool(mcp.NewTool("update_unit",
		mcp.WithDescription("Change the display unit of a metric."),
		mcp.WithString("metric", mcp.Description("Metric id."), mcp.Required(), metricEnum),
		mcp.WithString("unit", mcp.Description("Unit text, may be empty."), mcp.Required()),
	), h.handleUpdateUnit)

	s.AddTool(mcp.NewTool("update_labels",
		mcp.WithDescription("Rename the two compared periods."),
		mcp.WithString("start", mcp.Description("Label of the earlier period."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Label of the later period."), mcp.Required()),
	), h.handleUpdateLabels)

	s.AddTool(mcp.NewTool("reset_scorecard",
		mcp.WithDescription("Restore the factory scorecard, discarding all edits."),
	), h.handleReset)

	return s
}

// Serve runs the MCP server on stdio until the client disconnects.
func Serve(_ context.Context, store *state.Store, version string, log *logger.Logger) error {
	return server.ServeStdio(NewMCPServer(store, version, log))
}
