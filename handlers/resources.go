// ABOUTME: MCP resource handlers for the snapshot archive
// ABOUTME: Exposes archived dashboard snapshots read-only via salesdesk:// URIs
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/salesdesk/db"
	"github.com/harperreed/salesdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	SnapshotsURI      = "salesdesk://snapshots"
	LatestSnapshotURI = "salesdesk://snapshots/latest"
	SnapshotTemplate  = "salesdesk://snapshots/{id}"
)

type ResourceHandlers struct {
	db       *sql.DB
	identity models.Identity
}

func NewResourceHandlers(database *sql.DB, identity models.Identity) *ResourceHandlers {
	return &ResourceHandlers{db: database, identity: identity}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "salesdesk://") {
		return nil, fmt.Errorf("invalid URI scheme: expected salesdesk://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "salesdesk://"), "/")
	if parts[0] != "snapshots" {
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}

	switch {
	case len(parts) == 1:
		return h.readSnapshotList(uri)
	case parts[1] == "latest":
		return h.readLatest(uri)
	default:
		return h.readSnapshot(uri, parts[1])
	}
}

func (h *ResourceHandlers) readSnapshotList(uri string) (*mcp.ReadResourceResult, error) {
	infos, err := db.ListSnapshots(h.db, 50)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []db.SnapshotInfo{}
	}
	return jsonResource(uri, infos)
}

func (h *ResourceHandlers) readLatest(uri string) (*mcp.ReadResourceResult, error) {
	snap, err := db.LatestSnapshot(h.db, h.identity)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, snap)
}

func (h *ResourceHandlers) readSnapshot(uri, id string) (*mcp.ReadResourceResult, error) {
	snap, err := db.GetSnapshot(h.db, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, snap)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
