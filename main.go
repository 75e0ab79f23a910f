// ABOUTME: Entry point for the salesdesk CLI, dashboard, report API and MCP server
// ABOUTME: Resolves config and identity, then routes to subcommands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/salesdesk/cli"
	"github.com/harperreed/salesdesk/config"
	"github.com/harperreed/salesdesk/logging"
	"golang.org/x/term"
)

const version = "0.2.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	baseURL := flag.String("base-url", "", "Backend base URL (overrides config)")
	role := flag.String("role", "", "Acting role: manager, team_leader, salesman (overrides config)")
	userID := flag.String("user-id", "", "Acting user id (overrides config)")
	userName := flag.String("user-name", "", "Acting user display name (overrides config)")
	team := flag.String("team", "", "Acting user's team (overrides config)")
	managedTeam := flag.String("managed-team", "", "Team led by a team leader (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	dbPath := flag.String("db-path", "", "Snapshot archive path (default: ~/.local/share/salesdesk/snapshots.db)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("salesdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	override(&cfg.BaseURL, *baseURL)
	override(&cfg.Identity.Role, *role)
	override(&cfg.Identity.ID, *userID)
	override(&cfg.Identity.Name, *userName)
	override(&cfg.Identity.Team, *team)
	override(&cfg.Identity.ManagedTeam, *managedTeam)
	override(&cfg.LogLevel, *logLevel)
	override(&cfg.SnapshotDB, *dbPath)

	command := args[0]
	commandArgs := args[1:]

	// config works before the rest of the config is valid
	if command != "config" {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid config: %v (run 'salesdesk config init' or pass --base-url/--role)", err)
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app := cli.NewApp(cfg, logger)

	switch command {
	case "report":
		runSub("report", commandArgs, map[string]func(*cli.App, []string) error{
			"summary": cli.ReportSummaryCommand,
			"revenue": cli.ReportRevenueCommand,
			"trend":   cli.ReportTrendCommand,
			"agents":  cli.ReportAgentsCommand,
		}, app)

	case "deals":
		runSub("deals", commandArgs, map[string]func(*cli.App, []string) error{
			"list":   cli.ListDealsCommand,
			"add":    cli.AddDealCommand,
			"update": cli.UpdateDealCommand,
			"delete": cli.DeleteDealCommand,
		}, app)

	case "callbacks":
		runSub("callbacks", commandArgs, map[string]func(*cli.App, []string) error{
			"list":   cli.ListCallbacksCommand,
			"add":    cli.AddCallbackCommand,
			"move":   cli.MoveCallbackCommand,
			"delete": cli.DeleteCallbackCommand,
		}, app)

	case "datacenter":
		runSub("datacenter", commandArgs, map[string]func(*cli.App, []string) error{
			"list":   cli.ListDataCenterCommand,
			"post":   cli.PostDataCenterCommand,
			"delete": cli.DeleteDataCenterCommand,
		}, app)

	case "feedback":
		runSub("feedback", commandArgs, map[string]func(*cli.App, []string) error{
			"list":   cli.ListFeedbackCommand,
			"add":    cli.AddFeedbackCommand,
			"status": cli.FeedbackStatusCommand,
		}, app)

	case "snapshot":
		runSub("snapshot", commandArgs, map[string]func(*cli.App, []string) error{
			"save": cli.SnapshotSaveCommand,
			"show": cli.SnapshotShowCommand,
		}, app)

	case "viz":
		runSub("viz", commandArgs, map[string]func(*cli.App, []string) error{
			"dashboard": cli.VizDashboardCommand,
			"graph":     cli.VizGraphCommand,
		}, app)

	case "config":
		runSub("config", commandArgs, map[string]func(*cli.App, []string) error{
			"show": cli.ConfigShowCommand,
			"init": cli.ConfigInitCommand,
		}, app)

	case "tui":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Fatal("tui requires an interactive terminal; use 'salesdesk viz dashboard' instead")
		}
		if err := cli.TUICommand(app); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "serve":
		if err := cli.ServeCommand(app, commandArgs); err != nil {
			log.Fatalf("Report API failed: %v", err)
		}

	case "mcp":
		database, err := app.OpenArchive()
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if err := cli.MCPCommand(app, database, version); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func runSub(name string, args []string, commands map[string]func(*cli.App, []string) error, app *cli.App) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n", name)
		printUsage()
		os.Exit(1)
	}

	run, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", name, args[0])
		printUsage()
		os.Exit(1)
	}

	if err := run(app, args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`salesdesk v%s - Sales dashboard, reports and callback workflow

USAGE:
  salesdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version                Show version and exit
  --base-url <url>         Backend base URL
  --role <role>            manager, team_leader or salesman
  --user-id <id>           Acting user id
  --user-name <name>       Acting user display name
  --team <team>            Acting user's team
  --managed-team <team>    Team led by a team leader
  --log-level <level>      debug, info, warn, error
  --db-path <path>         Snapshot archive (default: ~/.local/share/salesdesk/snapshots.db)

  Every global flag can also be set in the config file or as SALESDESK_* environment variables.

COMMANDS:
  report                   Revenue and performance reports
  deals                    List and manage deals
  callbacks                List and manage callbacks
  datacenter               Team announcements
  feedback                 Feedback on announcements
  snapshot                 Archive snapshots for offline use
  viz                      Dashboard and graph output
  tui                      Interactive dashboard
  serve                    Read-only report API over HTTP
  mcp                      Start MCP server for Claude Desktop
  config                   Show or write the config file

REPORT COMMANDS:
  salesdesk report summary          Headline metrics
  salesdesk report revenue          Revenue by group
    --by <dim>                        agent, closing_agent, team, tier, status, day
    --limit <n>                       Max groups (default: all)
  salesdesk report trend            Daily revenue over the date range
  salesdesk report agents           Agent leaderboard
    --limit <n>                       Max agents (default: all)
  All report commands accept --offline to read the latest archived snapshot.

DEAL COMMANDS:
  salesdesk deals list              List deals
    --sort <field>                    createdAt, amount, customerName, agent, team, tier, status
    --dir <asc|desc>                  Sort direction (default: desc)
    --page <n> --page-size <n>        Paging
    --status <status>                 Filter by status
  salesdesk deals add               Book a deal
    --customer <name>                 Customer name (required)
    --amount <n>                      Amount, e.g. 1250.50
    --tier <tier>                     Service tier
    --closer <user-id>                Closing agent
  salesdesk deals update [flags] <id>
    --amount <n> --status <s> --tier <t>
  salesdesk deals delete <id>       Delete a deal (managers only)

CALLBACK COMMANDS:
  salesdesk callbacks list          List callbacks (same paging flags as deals)
  salesdesk callbacks add           Schedule a callback
    --customer <name> --phone <n>     Required
    --priority <p>                    low, medium, high, urgent
    --date <YYYY-MM-DD> --time <HH:MM>
  salesdesk callbacks move <id> <status>   contacted, completed or cancelled
  salesdesk callbacks delete <id>

DATA CENTER COMMANDS:
  salesdesk datacenter list [--type <t>]
  salesdesk datacenter post --title <t> (--team <team> | --user <id>)
  salesdesk datacenter delete <id>  (managers only)
  salesdesk feedback list [--entry <id>]
  salesdesk feedback add --entry <id> --text <text> [--rating 1-5]
  salesdesk feedback status <id> <pending|in_progress|resolved|closed>

SNAPSHOT COMMANDS:
  salesdesk snapshot save [--keep <n>]   Archive the current snapshot
  salesdesk snapshot show [id]           List archive or show one snapshot

VIZ COMMANDS:
  salesdesk viz dashboard           Print the terminal dashboard
  salesdesk viz graph               Team and agent revenue graph (DOT)
    --output <file>                   Output file (default: stdout)

EXAMPLES:
  # Team leader view of the last 30 days
  salesdesk --role team_leader --user-id u42 --managed-team Alpha report summary

  # Revenue by service tier from the archive
  salesdesk report revenue --by tier --offline

  # Mark a callback contacted
  salesdesk callbacks move cb_123 contacted

  # Start MCP server for Claude Desktop
  salesdesk mcp

`, version)
}
