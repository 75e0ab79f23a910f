// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the team_graph tool rendering the caller's visible deals as a team hierarchy
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/harperreed/salesdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	loader   Loader
	identity models.Identity
}

func NewVizHandlers(loader Loader, identity models.Identity) *VizHandlers {
	return &VizHandlers{loader: loader, identity: identity}
}

type TeamGraphInput struct {
	Title string `json:"title,omitempty" jsonschema:"Graph title (default: Revenue by team)"`
}

type TeamGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) TeamGraph(ctx context.Context, _ *mcp.CallToolRequest, input TeamGraphInput) (*mcp.CallToolResult, TeamGraphOutput, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, TeamGraphOutput{}, err
	}

	title := input.Title
	if title == "" {
		title = "Revenue by team"
	}

	dot, err := viz.GenerateTeamGraph(ctx, title, snap.Deals)
	if err != nil {
		return nil, TeamGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// One root, one node per team, one per agent within a team; each non-root node has one parent edge.
	nodes := 1
	for _, team := range report.GroupBy(snap.Deals, report.ByTeam) {
		nodes += 1 + len(report.GroupBy(team.Items, report.BySalesAgent))
	}

	return nil, TeamGraphOutput{
		DOTSource: dot,
		NodeCount: nodes,
		EdgeCount: nodes - 1,
	}, nil
}
