// ABOUTME: Team hierarchy graph generation using graphviz
// ABOUTME: Renders teams and their agents with revenue and deal counts as DOT
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
)

// GenerateTeamGraph renders the visible deals as a team → agent hierarchy.
// Team and agent nodes are labelled with their revenue and deal count.
func GenerateTeamGraph(ctx context.Context, title string, deals []models.Deal) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel(title)
	graph.SetRankDir(cgraph.LRRank)

	root, err := graph.CreateNodeByName("root")
	if err != nil {
		return "", fmt.Errorf("failed to create node: %w", err)
	}
	root.SetLabel(fmt.Sprintf("All teams\n$%s", report.TotalRevenue(deals)))
	root.SetShape("box")
	root.SetStyle("filled")
	root.SetFillColor("lightgrey")

	for _, team := range report.SortedBySum(report.GroupBy(deals, report.ByTeam)) {
		teamNode, err := graph.CreateNodeByName("team_" + team.Key)
		if err != nil {
			return "", fmt.Errorf("failed to create node: %w", err)
		}
		teamNode.SetLabel(fmt.Sprintf("%s\n$%s (%d deals)", team.Label, team.Sum, team.Count))
		teamNode.SetShape("box")
		teamNode.SetStyle("filled")
		teamNode.SetFillColor("lightblue")
		if _, err := graph.CreateEdgeByName("", root, teamNode); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}

		for _, agent := range report.SortedBySum(report.GroupBy(team.Items, report.BySalesAgent)) {
			// Agents can sell for more than one team; qualify the node name.
			agentNode, err := graph.CreateNodeByName("agent_" + team.Key + "_" + agent.Key)
			if err != nil {
				return "", fmt.Errorf("failed to create node: %w", err)
			}
			agentNode.SetLabel(fmt.Sprintf("%s\n$%s (%d deals)", agent.Label, agent.Sum, agent.Count))
			agentNode.SetShape("ellipse")
			agentNode.SetStyle("filled")
			agentNode.SetFillColor("lightgreen")
			if _, err := graph.CreateEdgeByName("", teamNode, agentNode); err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
