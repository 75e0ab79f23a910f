// ABOUTME: MCP server subcommand
// ABOUTME: Exposes role-scoped reports, write tools, snapshot resources and prompts over stdio
package cli

import (
	"database/sql"

	"github.com/harperreed/salesdesk/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, database *sql.DB, version string) error {
	id := app.Config.Identity
	app.Logger.Info("starting salesdesk MCP server",
		zap.String("role", id.Role),
		zap.String("user_id", id.ID),
		zap.String("backend", app.Client.BaseURL()),
	)

	// Create handlers
	reportHandlers := handlers.NewReportHandlers(app.Service, id)
	dealHandlers := app.dealHandlers()
	callbackHandlers := app.callbackHandlers()
	dataCenterHandlers := app.dataCenterHandlers()
	resourceHandlers := handlers.NewResourceHandlers(database, id)
	promptHandlers := handlers.NewPromptHandlers(app.Service, id)
	vizHandlers := handlers.NewVizHandlers(app.Service, id)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "salesdesk",
		Version: version,
	}, nil)

	// Reports
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard_summary",
		Description: "Headline metrics for the caller's scope: revenue, deal and callback counts, conversion rate",
	}, reportHandlers.DashboardSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "revenue_report",
		Description: "Revenue grouped by agent, closing_agent, team, tier, status or day",
	}, reportHandlers.RevenueReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "agent_performance",
		Description: "Agent leaderboard by revenue with deal counts, average deal size and callback conversion",
	}, reportHandlers.AgentPerformance)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_deals",
		Description: "List visible deals with sorting, paging and an optional status filter",
	}, reportHandlers.ListDeals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_callbacks",
		Description: "List visible callbacks with sorting, paging and an optional status filter",
	}, reportHandlers.ListCallbacks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_graph",
		Description: "GraphViz DOT source of visible revenue as a team and agent hierarchy",
	}, vizHandlers.TeamGraph)

	// Deals
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Book a new deal with the caller as sales agent",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal",
		Description: "Update amount, status or service tier of a deal the caller may edit",
	}, dealHandlers.UpdateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_deal",
		Description: "Delete a deal (managers only)",
	}, dealHandlers.DeleteDeal)

	// Callbacks
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_callback",
		Description: "Schedule a callback with the caller as sales agent",
	}, callbackHandlers.CreateCallback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transition_callback",
		Description: "Move a callback through pending, contacted, completed or cancelled",
	}, callbackHandlers.TransitionCallback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_callback",
		Description: "Delete a callback the caller may edit",
	}, callbackHandlers.DeleteCallback)

	// Data center and feedback
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_data_center",
		Description: "List data center entries addressed to the caller or their team",
	}, dataCenterHandlers.ListDataCenter)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "post_data_center",
		Description: "Post an announcement to a team or a single user (managers and team leaders)",
	}, dataCenterHandlers.PostDataCenter)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_data_center",
		Description: "Delete a data center entry (managers only)",
	}, dataCenterHandlers.DeleteDataCenter)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_feedback",
		Description: "List feedback the caller can see, optionally for one data center entry",
	}, dataCenterHandlers.ListFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_feedback",
		Description: "Leave feedback on a data center entry",
	}, dataCenterHandlers.AddFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_feedback_status",
		Description: "Set the status of a feedback item (managers only)",
	}, dataCenterHandlers.SetFeedbackStatus)

	// Snapshot archive
	server.AddResource(&mcp.Resource{
		URI:         handlers.SnapshotsURI,
		Name:        "snapshots",
		Description: "Archived dashboard snapshots, newest first",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         handlers.LatestSnapshotURI,
		Name:        "latest-snapshot",
		Description: "Most recent archived snapshot for the configured identity",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: handlers.SnapshotTemplate,
		Name:        "snapshot",
		Description: "One archived snapshot by id",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "revenue-review",
		Description: "Review revenue for the caller's scope grouped by a dimension",
		Arguments: []*mcp.PromptArgument{
			{Name: "group_by", Description: "agent, closing_agent, team, tier, status or day"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "callback-followup",
		Description: "Plan follow-ups for open callbacks, highest priority first",
	}, promptHandlers.GetPrompt)

	ctx, cancel := Context()
	defer cancel()
	return server.Run(ctx, &mcp.StdioTransport{})
}
