// ABOUTME: Snapshot archive operations: save, load latest, list and prune
// ABOUTME: Stores role-scoped dashboard snapshots for offline reporting
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
)

// SnapshotInfo summarizes one archived snapshot.
type SnapshotInfo struct {
	ID           string          `json:"id"`
	Identity     models.Identity `json:"identity"`
	FetchedAt    time.Time       `json:"fetchedAt"`
	Deals        int             `json:"deals"`
	Callbacks    int             `json:"callbacks"`
	TotalRevenue models.Money    `json:"totalRevenue"`
	Success      bool            `json:"success"`
}

func nullTime(ts models.Timestamp) sql.NullTime {
	if !ts.Valid {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts.Time.UTC(), Valid: true}
}

func timestamp(nt sql.NullTime) models.Timestamp {
	if !nt.Valid {
		return models.Timestamp{}
	}
	return models.At(nt.Time.UTC())
}

// SaveSnapshot archives snap and returns its id.
func SaveSnapshot(db *sql.DB, snap dashboard.Snapshot) (string, error) {
	summaryJSON, err := json.Marshal(snap.Summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	chartsJSON, err := json.Marshal(snap.Charts)
	if err != nil {
		return "", fmt.Errorf("failed to encode charts: %w", err)
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := models.NewID()
	_, err = tx.Exec(`
		INSERT INTO snapshots (id, user_id, user_name, role, team, managed_team, date_range_days, summary_json, charts_json, stats_source, charts_source, success, issues, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, snap.Identity.ID, snap.Identity.Name, snap.Identity.Role, snap.Identity.Team, snap.Identity.ManagedTeam,
		snap.DateRangeDays, string(summaryJSON), string(chartsJSON), snap.StatsSource, snap.ChartsSource,
		snap.Success, snap.Issues, fetchedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	dealStmt, err := tx.Prepare(`
		INSERT INTO snapshot_deals (snapshot_id, position, deal_id, customer_name, amount_cents, sales_agent_id, sales_agent_name, closing_agent_id, closing_agent_name, team, service_tier, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare deal insert: %w", err)
	}
	defer dealStmt.Close()

	for i, d := range snap.Deals {
		_, err := dealStmt.Exec(id, i, d.DealID, d.CustomerName, int64(d.Amount), d.SalesAgentID, d.SalesAgentName,
			d.ClosingAgentID, d.ClosingAgentName, d.Team, d.ServiceTier, d.Status, nullTime(d.CreatedAt))
		if err != nil {
			return "", fmt.Errorf("failed to insert deal %s: %w", d.DealID, err)
		}
	}

	cbStmt, err := tx.Prepare(`
		INSERT INTO snapshot_callbacks (snapshot_id, position, callback_id, customer_name, phone_number, email, sales_agent_id, sales_agent_name, team, status, priority, notes, scheduled_date, scheduled_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare callback insert: %w", err)
	}
	defer cbStmt.Close()

	for i, c := range snap.Callbacks {
		_, err := cbStmt.Exec(id, i, c.CallbackID, c.CustomerName, c.PhoneNumber, c.Email, c.SalesAgentID, c.SalesAgentName,
			c.Team, c.Status, c.Priority, c.Notes, c.ScheduledDate, c.ScheduledTime, nullTime(c.CreatedAt))
		if err != nil {
			return "", fmt.Errorf("failed to insert callback %s: %w", c.CallbackID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the newest snapshot taken for id's role and user,
// or nil if there is none.
func LatestSnapshot(db *sql.DB, id models.Identity) (*dashboard.Snapshot, error) {
	var snapshotID string
	err := db.QueryRow(`
		SELECT id FROM snapshots
		WHERE role = ? AND user_id = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, id.Role, id.ID).Scan(&snapshotID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return GetSnapshot(db, snapshotID)
}

// GetSnapshot loads a snapshot with its deals and callbacks, or nil if absent.
func GetSnapshot(db *sql.DB, snapshotID string) (*dashboard.Snapshot, error) {
	snap := &dashboard.Snapshot{}
	var summaryJSON, chartsJSON string

	err := db.QueryRow(`
		SELECT user_id, user_name, role, team, managed_team, date_range_days, summary_json, charts_json, stats_source, charts_source, success, issues, fetched_at
		FROM snapshots WHERE id = ?
	`, snapshotID).Scan(
		&snap.Identity.ID,
		&snap.Identity.Name,
		&snap.Identity.Role,
		&snap.Identity.Team,
		&snap.Identity.ManagedTeam,
		&snap.DateRangeDays,
		&summaryJSON,
		&chartsJSON,
		&snap.StatsSource,
		&snap.ChartsSource,
		&snap.Success,
		&snap.Issues,
		&snap.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", snapshotID, err)
	}
	snap.FetchedAt = snap.FetchedAt.UTC()

	if err := json.Unmarshal([]byte(summaryJSON), &snap.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot summary: %w", err)
	}
	if err := json.Unmarshal([]byte(chartsJSON), &snap.Charts); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot charts: %w", err)
	}

	if snap.Deals, err = snapshotDeals(db, snapshotID); err != nil {
		return nil, err
	}
	if snap.Callbacks, err = snapshotCallbacks(db, snapshotID); err != nil {
		return nil, err
	}
	return snap, nil
}

func snapshotDeals(db *sql.DB, snapshotID string) ([]models.Deal, error) {
	rows, err := db.Query(`
		SELECT deal_id, customer_name, amount_cents, sales_agent_id, sales_agent_name, closing_agent_id, closing_agent_name, team, service_tier, status, created_at
		FROM snapshot_deals WHERE snapshot_id = ?
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot deals: %w", err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		var d models.Deal
		var amount int64
		var created sql.NullTime
		if err := rows.Scan(&d.DealID, &d.CustomerName, &amount, &d.SalesAgentID, &d.SalesAgentName,
			&d.ClosingAgentID, &d.ClosingAgentName, &d.Team, &d.ServiceTier, &d.Status, &created); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot deal: %w", err)
		}
		d.Amount = models.Money(amount)
		d.CreatedAt = timestamp(created)
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func snapshotCallbacks(db *sql.DB, snapshotID string) ([]models.Callback, error) {
	rows, err := db.Query(`
		SELECT callback_id, customer_name, phone_number, email, sales_agent_id, sales_agent_name, team, status, priority, notes, scheduled_date, scheduled_time, created_at
		FROM snapshot_callbacks WHERE snapshot_id = ?
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot callbacks: %w", err)
	}
	defer rows.Close()

	callbacks := []models.Callback{}
	for rows.Next() {
		var c models.Callback
		var created sql.NullTime
		if err := rows.Scan(&c.CallbackID, &c.CustomerName, &c.PhoneNumber, &c.Email, &c.SalesAgentID, &c.SalesAgentName,
			&c.Team, &c.Status, &c.Priority, &c.Notes, &c.ScheduledDate, &c.ScheduledTime, &created); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot callback: %w", err)
		}
		c.CreatedAt = timestamp(created)
		callbacks = append(callbacks, c)
	}
	return callbacks, rows.Err()
}

// ListSnapshots returns the newest snapshots first.
func ListSnapshots(db *sql.DB, limit int) ([]SnapshotInfo, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT s.id, s.user_id, s.user_name, s.role, s.team, s.managed_team, s.success, s.fetched_at,
			(SELECT COUNT(*) FROM snapshot_deals d WHERE d.snapshot_id = s.id),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM snapshot_deals d WHERE d.snapshot_id = s.id),
			(SELECT COUNT(*) FROM snapshot_callbacks c WHERE c.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.fetched_at DESC, s.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var revenue int64
		if err := rows.Scan(&info.ID, &info.Identity.ID, &info.Identity.Name, &info.Identity.Role, &info.Identity.Team,
			&info.Identity.ManagedTeam, &info.Success, &info.FetchedAt, &info.Deals, &revenue, &info.Callbacks); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		info.TotalRevenue = models.Money(revenue)
		info.FetchedAt = info.FetchedAt.UTC()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// PruneSnapshots keeps the newest keep snapshots and deletes the rest.
func PruneSnapshots(db *sql.DB, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const stale = `SELECT id FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT -1 OFFSET ?`
	for _, table := range snapshotTables {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE snapshot_id IN (`+stale+`)`, keep); err != nil {
			return 0, fmt.Errorf("failed to prune %s: %w", table, err)
		}
	}
	res, err := tx.Exec(`DELETE FROM snapshots WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return n, nil
}
