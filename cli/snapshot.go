// ABOUTME: Snapshot archive CLI commands
// ABOUTME: Saves live snapshots to SQLite, lists the archive and shows one snapshot
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/salesdesk/db"
)

// SnapshotSaveCommand loads a live snapshot and archives it.
func SnapshotSaveCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("snapshot save", flag.ExitOnError)
	keep := fs.Int("keep", 0, "Keep only the newest N snapshots after saving (0 keeps all)")
	_ = fs.Parse(args)

	ctx, cancel := Context()
	defer cancel()

	snap, err := app.snapshot(ctx, false)
	if err != nil {
		return err
	}

	database, err := app.OpenArchive()
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := db.SaveSnapshot(database, snap)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Snapshot saved: %s (%d deals, %d callbacks, $%s)\n",
		id, len(snap.Deals), len(snap.Callbacks), snap.Summary.TotalRevenue)

	if *keep > 0 {
		pruned, err := db.PruneSnapshots(database, *keep)
		if err != nil {
			return err
		}
		if pruned > 0 {
			fmt.Printf("  Pruned %d older snapshots\n", pruned)
		}
	}
	return nil
}

// SnapshotShowCommand lists archived snapshots, or prints one by id.
func SnapshotShowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("snapshot show", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum snapshots to list")
	_ = fs.Parse(args)

	database, err := app.OpenArchive()
	if err != nil {
		return err
	}
	defer database.Close()

	if fs.NArg() > 0 {
		snap, err := db.GetSnapshot(database, fs.Arg(0))
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("snapshot not found: %s", fs.Arg(0))
		}
		printSummary(os.Stdout, *snap)
		return nil
	}

	infos, err := db.ListSnapshots(database, *limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No snapshots archived")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FETCHED\tROLE\tUSER\tDEALS\tCALLBACKS\tREVENUE\tID")
	_, _ = fmt.Fprintln(w, "-------\t----\t----\t-----\t---------\t-------\t--")
	for _, s := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t$%s\t%s\n",
			s.FetchedAt.Format("2006-01-02 15:04"), s.Identity.Role, dash(s.Identity.ID), s.Deals, s.Callbacks, s.TotalRevenue, s.ID)
	}
	return w.Flush()
}
