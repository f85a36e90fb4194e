// Package mcp exposes the event store to operators over the Model Context
// Protocol, so an assistant can inspect what a broker has retained and how
// far its replay watermark has advanced.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gridrelay/src/store"
)

// Server is the MCP server for gridrelay.
type Server struct {
	mcpServer *server.MCPServer
	store     store.EventStore
}

// NewServer creates a new MCP server over the given event store.
func NewServer(st store.EventStore) *Server {
	s := server.NewMCPServer(
		"gridrelay",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		store:     st,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	latestTool := mcp.NewTool("latest_event",
		mcp.WithDescription("Return the most recently stored telemetry event. This is the replay watermark: a catch-up client resumes from here after an outage. Returns null when the store is empty."),
	)

	queryTool := mcp.NewTool("query_events",
		mcp.WithDescription("Return stored telemetry events in arrival order. Without 'after', returns the full history; with it, only events that arrived strictly later."),
		mcp.WithString("after",
			mcp.Description("RFC3339 timestamp; only events with arrival_time strictly after this are returned"),
		),
	)

	statsTool := mcp.NewTool("store_stats",
		mcp.WithDescription("Summarize the event store: total event count, per-kind counts, and the arrival times of the oldest and newest events."),
	)

	s.mcpServer.AddTool(latestTool, s.handleLatestEvent)
	s.mcpServer.AddTool(queryTool, s.handleQueryEvents)
	s.mcpServer.AddTool(statsTool, s.handleStoreStats)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleLatestEvent handles the latest_event tool call.
func (s *Server) handleLatestEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := latestEventJSON(ctx, s.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(payload), nil
}

// handleQueryEvents handles the query_events tool call.
func (s *Server) handleQueryEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	after := request.GetString("after", "")

	var cutoff *time.Time
	if after != "" {
		parsed, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid 'after' timestamp: %v", err)), nil
		}
		cutoff = &parsed
	}

	payload, err := queryEventsJSON(ctx, s.store, cutoff)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(payload), nil
}

// handleStoreStats handles the store_stats tool call.
func (s *Server) handleStoreStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := storeStatsJSON(ctx, s.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(payload), nil
}
