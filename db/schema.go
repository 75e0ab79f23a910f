// ABOUTME: Database schema for archived dashboard snapshots
// ABOUTME: One snapshot row plus its scoped deals and callbacks in position order
package db

import (
	"database/sql"
	"fmt"
)

// snapshotTables hold one snapshot's records, keyed by snapshot_id.
var snapshotTables = []string{"snapshot_deals", "snapshot_callbacks"}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	user_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	team TEXT NOT NULL DEFAULT '',
	managed_team TEXT NOT NULL DEFAULT '',
	date_range_days INTEGER NOT NULL,
	summary_json TEXT NOT NULL,
	charts_json TEXT NOT NULL,
	stats_source TEXT NOT NULL DEFAULT '',
	charts_source TEXT NOT NULL DEFAULT '',
	success INTEGER NOT NULL,
	issues INTEGER NOT NULL DEFAULT 0,
	fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_owner ON snapshots(role, user_id, fetched_at);

CREATE TABLE IF NOT EXISTS snapshot_deals (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	deal_id TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	amount_cents INTEGER NOT NULL,
	sales_agent_id TEXT NOT NULL DEFAULT '',
	sales_agent_name TEXT NOT NULL DEFAULT '',
	closing_agent_id TEXT NOT NULL DEFAULT '',
	closing_agent_name TEXT NOT NULL DEFAULT '',
	team TEXT NOT NULL DEFAULT '',
	service_tier TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	created_at DATETIME,
	PRIMARY KEY (snapshot_id, position),
	FOREIGN KEY (snapshot_id) REFERENCES snapshots(id)
);

CREATE TABLE IF NOT EXISTS snapshot_callbacks (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	callback_id TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	sales_agent_id TEXT NOT NULL DEFAULT '',
	sales_agent_name TEXT NOT NULL DEFAULT '',
	team TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	scheduled_date TEXT NOT NULL DEFAULT '',
	scheduled_time TEXT NOT NULL DEFAULT '',
	created_at DATETIME,
	PRIMARY KEY (snapshot_id, position),
	FOREIGN KEY (snapshot_id) REFERENCES snapshots(id)
);
`

func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
