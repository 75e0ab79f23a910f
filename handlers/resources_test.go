// ABOUTME: Tests for the snapshot archive MCP resources
// ABOUTME: Reads archived snapshots back through salesdesk:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readResource(t *testing.T, h *ResourceHandlers, uri string) (*mcp.ReadResourceResult, error) {
	t.Helper()
	return h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	})
}

func TestSnapshotResources(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	h := NewResourceHandlers(database, salesman)

	_, err = readResource(t, h, LatestSnapshotURI)
	assert.Error(t, err, "no snapshot archived yet")

	snap := testSnapshot()
	snap.Identity = salesman
	snap.FetchedAt = time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	id, err := db.SaveSnapshot(database, snap)
	require.NoError(t, err)

	result, err := readResource(t, h, SnapshotsURI)
	require.NoError(t, err)
	var infos []db.SnapshotInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, id, infos[0].ID)
	assert.Equal(t, 3, infos[0].Deals)

	for _, uri := range []string{LatestSnapshotURI, "salesdesk://snapshots/" + id} {
		result, err = readResource(t, h, uri)
		require.NoError(t, err, uri)
		assert.Equal(t, uri, result.Contents[0].URI)
		var got dashboard.Snapshot
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Len(t, got.Deals, 3)
		assert.Len(t, got.Callbacks, 2)
	}

	_, err = readResource(t, h, "salesdesk://snapshots/missing")
	assert.Error(t, err)
	_, err = readResource(t, h, "crm://contacts")
	assert.Error(t, err)
	_, err = readResource(t, h, "salesdesk://deals")
	assert.Error(t, err)
}
