// ABOUTME: Tests for the snapshot archive
// ABOUTME: Round-trips snapshots through in-memory SQLite and checks listing and pruning
package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleSnapshot(fetched time.Time) dashboard.Snapshot {
	created := models.At(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	return dashboard.Snapshot{
		Identity:      models.Identity{ID: "t1", Name: "Tess", Role: models.RoleTeamLeader, ManagedTeam: "Alpha"},
		DateRangeDays: 30,
		Deals: []models.Deal{
			{DealID: "d2", CustomerName: "Bolt", Amount: 20050, SalesAgentID: "s2", Team: "Alpha", ServiceTier: "Premium", Status: models.DealActive, CreatedAt: created},
			{DealID: "d1", CustomerName: "Acme", Amount: 10000, SalesAgentID: "t1", ClosingAgentID: "s2", Status: models.DealPending},
		},
		Callbacks: []models.Callback{
			{CallbackID: "c1", CustomerName: "Cora", PhoneNumber: "555", SalesAgentID: "s2", Team: "Alpha", Status: models.CallbackContacted, Priority: models.PriorityHigh, ScheduledDate: "2024-05-04", ScheduledTime: "10:00", CreatedAt: created},
		},
		Summary:      models.Summary{TotalRevenue: 30050, TotalDeals: 2, AverageDealSize: 15025, TotalCallbacks: 1, ConversionRate: 0},
		Charts:       models.Charts{SalesByTeam: []models.ChartPoint{{Label: "Alpha", Revenue: 30050, Count: 2}}},
		StatsSource:  dashboard.SourceLocal,
		ChartsSource: dashboard.SourceBackend,
		Success:      true,
		Issues:       3,
		FetchedAt:    fetched,
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	db := setupTestDB(t)
	snap := sampleSnapshot(time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC))

	id, err := SaveSnapshot(db, snap)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := GetSnapshot(db, id)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	require.NotNil(t, got)

	if diff := cmp.Diff(snap, *got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSnapshotMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetSnapshot(db, "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)

	latest, err := LatestSnapshot(db, models.Identity{ID: "x", Role: models.RoleSalesman})
	assert.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLatestSnapshotIsScopedToIdentity(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	older := sampleSnapshot(base)
	older.Issues = 1
	newer := sampleSnapshot(base.Add(time.Hour))
	newer.Issues = 2
	other := sampleSnapshot(base.Add(2 * time.Hour))
	other.Identity = models.Identity{ID: "m1", Role: models.RoleManager}

	for _, s := range []dashboard.Snapshot{older, newer, other} {
		if _, err := SaveSnapshot(db, s); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	latest, err := LatestSnapshot(db, older.Identity)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Issues)
	assert.Len(t, latest.Deals, 2)
}

func TestListAndPruneSnapshots(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := SaveSnapshot(db, sampleSnapshot(base.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
		ids = append(ids, id)
	}

	infos, err := ListSnapshots(db, 0)
	require.NoError(t, err)
	require.Len(t, infos, 4)
	assert.Equal(t, ids[3], infos[0].ID)
	assert.Equal(t, 2, infos[0].Deals)
	assert.Equal(t, 1, infos[0].Callbacks)
	assert.Equal(t, models.Money(30050), infos[0].TotalRevenue)
	assert.True(t, infos[0].Success)

	pruned, err := PruneSnapshots(db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pruned)

	infos, err = ListSnapshots(db, 10)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, ids[3], infos[0].ID)

	var orphans int
	err = db.QueryRow("SELECT COUNT(*) FROM snapshot_deals WHERE snapshot_id != ?", ids[3]).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}
