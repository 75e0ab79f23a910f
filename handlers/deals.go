// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, update_deal and delete_deal with advisory role checks
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/salesdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DealHandlers struct {
	backend  Backend
	loader   Loader
	identity models.Identity
}

func NewDealHandlers(b Backend, loader Loader, identity models.Identity) *DealHandlers {
	return &DealHandlers{backend: b, loader: loader, identity: identity}
}

type CreateDealInput struct {
	CustomerName string  `json:"customer_name" jsonschema:"Customer name (required)"`
	Amount       float64 `json:"amount" jsonschema:"Amount paid in currency units, e.g. 1250.50"`
	ServiceTier  string  `json:"service_tier,omitempty" jsonschema:"Service tier purchased"`
	ClosingAgent string  `json:"closing_agent_id,omitempty" jsonschema:"User id of the closing agent"`
	Status       string  `json:"status,omitempty" jsonschema:"Deal status: pending, active, completed, cancelled (default pending)"`
}

type DealOutput struct {
	Deal models.Deal `json:"deal"`
}

// CreateDeal books a deal under the caller as sales agent and team.
func (h *DealHandlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.CustomerName == "" {
		return nil, DealOutput{}, fmt.Errorf("customer_name is required")
	}

	deal := models.Deal{
		CustomerName:   input.CustomerName,
		Amount:         models.MoneyFromFloat(input.Amount),
		SalesAgentID:   h.identity.ID,
		SalesAgentName: h.identity.Name,
		ClosingAgentID: input.ClosingAgent,
		Team:           h.identity.Team,
		ServiceTier:    input.ServiceTier,
		Status:         input.Status,
	}

	created, err := h.backend.CreateDeal(ctx, deal)
	if err != nil {
		return nil, DealOutput{}, err
	}
	return nil, DealOutput{Deal: created}, nil
}

type UpdateDealInput struct {
	ID          string   `json:"id" jsonschema:"Deal id (required)"`
	Amount      *float64 `json:"amount,omitempty" jsonschema:"New amount in currency units"`
	Status      string   `json:"status,omitempty" jsonschema:"New status: pending, active, completed, cancelled"`
	ServiceTier string   `json:"service_tier,omitempty" jsonschema:"New service tier"`
}

// UpdateDeal edits a deal the caller can see. Only provided fields change.
func (h *DealHandlers) UpdateDeal(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}

	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, DealOutput{}, err
	}
	deal, ok := findDeal(snap.Deals, input.ID)
	if !ok {
		return nil, DealOutput{}, fmt.Errorf("deal not found: %s", input.ID)
	}
	if err := models.CanEditDeal(h.identity, deal); err != nil {
		return nil, DealOutput{}, err
	}

	if input.Amount != nil {
		deal.Amount = models.MoneyFromFloat(*input.Amount)
	}
	if input.Status != "" {
		deal.Status = input.Status
	}
	if input.ServiceTier != "" {
		deal.ServiceTier = input.ServiceTier
	}

	if err := h.backend.UpdateDeal(ctx, deal); err != nil {
		return nil, DealOutput{}, err
	}
	return nil, DealOutput{Deal: deal}, nil
}

type DeleteInput struct {
	ID string `json:"id" jsonschema:"Record id (required)"`
}

type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *DealHandlers) DeleteDeal(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := models.CanDeleteDeal(h.identity); err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.backend.DeleteDeal(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}
