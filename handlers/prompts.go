// ABOUTME: MCP prompt handlers built from the caller's current dashboard
// ABOUTME: Provides revenue-review and callback-followup prompt templates
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	loader   Loader
	identity models.Identity
}

func NewPromptHandlers(loader Loader, identity models.Identity) *PromptHandlers {
	return &PromptHandlers{loader: loader, identity: identity}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "revenue-review":
		return h.revenueReview(ctx, request.Params.Arguments)
	case "callback-followup":
		return h.callbackFollowup(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) revenueReview(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, err
	}

	groupBy := args["group_by"]
	groups, err := report.RevenueBy(snap.Deals, groupBy)
	if err != nil {
		return nil, err
	}
	if groupBy == "" {
		groupBy = "agent"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please review sales performance for the last %d days:\n\n", snap.DateRangeDays)
	fmt.Fprintf(&b, "Total Revenue: %s\n", snap.Summary.TotalRevenue)
	fmt.Fprintf(&b, "Total Deals: %d\n", snap.Summary.TotalDeals)
	fmt.Fprintf(&b, "Average Deal Size: %s\n", snap.Summary.AverageDealSize)
	fmt.Fprintf(&b, "Callback Conversion: %.1f%%\n\n", snap.Summary.ConversionRate)
	fmt.Fprintf(&b, "Revenue by %s:\n", groupBy)
	for _, g := range groups {
		fmt.Fprintf(&b, "  - %s: %d deals, %s\n", g.Label, g.Deals, g.Revenue)
	}

	b.WriteString("\nPlease provide:")
	b.WriteString("\n1. Where revenue is concentrated and where it is thin")
	b.WriteString("\n2. Agents or teams that may need support")

	return &mcp.GetPromptResult{
		Description: "Revenue review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) callbackFollowup(ctx context.Context) (*mcp.GetPromptResult, error) {
	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, err
	}

	open := filter(snap.Callbacks, func(c models.Callback) bool {
		return c.Status == models.CallbackPending || c.Status == models.CallbackContacted
	})
	open = report.Sort(open, "priority", report.Desc)

	var b strings.Builder
	fmt.Fprintf(&b, "There are %d open callbacks:\n\n", len(open))
	for _, c := range open {
		fmt.Fprintf(&b, "  - %s (%s, %s priority)", c.CustomerName, c.Status, c.Priority)
		if c.ScheduledDate != "" {
			fmt.Fprintf(&b, " scheduled %s %s", c.ScheduledDate, c.ScheduledTime)
		}
		if c.Notes != "" {
			fmt.Fprintf(&b, ": %s", c.Notes)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nSuggest an order to work through these and a short talking point for each.")

	return &mcp.GetPromptResult{
		Description: "Callback follow-up plan",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}
