// ABOUTME: Report API server subcommand
// ABOUTME: Serves role-scoped reports over HTTP until interrupted
package cli

import (
	"flag"

	"github.com/harperreed/salesdesk/web"
)

// ServeCommand runs the read-only report API.
func ServeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("listen", app.Config.Listen, "Listen address")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	server := web.NewServer(app.Service, app.Config.PageSize, app.Config.CORSOrigins, app.Logger)
	return server.ListenAndServe(ctx, *addr)
}
