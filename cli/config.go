// ABOUTME: Config CLI commands
// ABOUTME: Shows the effective configuration and writes a starter config file
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/salesdesk/config"
	"gopkg.in/yaml.v3"
)

// ConfigShowCommand prints the effective config with the token masked.
func ConfigShowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	_ = fs.Parse(args)

	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n", path)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(app.Config.Redacted()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// ConfigInitCommand writes the effective config to the config path.
func ConfigInitCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	_ = fs.Parse(args)

	path, err := config.Path()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := app.Config.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("✓ Config written to %s\n", path)
	return nil
}
