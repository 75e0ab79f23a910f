// ABOUTME: Callback MCP tool handlers
// ABOUTME: Implements create_callback, transition_callback and delete_callback
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/salesdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type CallbackHandlers struct {
	backend  Backend
	loader   Loader
	identity models.Identity
}

func NewCallbackHandlers(b Backend, loader Loader, identity models.Identity) *CallbackHandlers {
	return &CallbackHandlers{backend: b, loader: loader, identity: identity}
}

type CreateCallbackInput struct {
	CustomerName  string `json:"customer_name" jsonschema:"Customer name (required)"`
	PhoneNumber   string `json:"phone_number,omitempty" jsonschema:"Phone number to call back"`
	Email         string `json:"email,omitempty" jsonschema:"Customer email"`
	Priority      string `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, urgent (default medium)"`
	ScheduledDate string `json:"scheduled_date,omitempty" jsonschema:"Scheduled date as YYYY-MM-DD"`
	ScheduledTime string `json:"scheduled_time,omitempty" jsonschema:"Scheduled time as HH:MM"`
	Notes         string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type CallbackOutput struct {
	Callback models.Callback `json:"callback"`
	// Next lists the statuses the callback can move to from here.
	Next []string `json:"next"`
}

func callbackOutput(cb models.Callback) CallbackOutput {
	return CallbackOutput{Callback: cb, Next: models.NextCallbackStatuses(cb.Status)}
}

func (h *CallbackHandlers) CreateCallback(ctx context.Context, _ *mcp.CallToolRequest, input CreateCallbackInput) (*mcp.CallToolResult, CallbackOutput, error) {
	if input.CustomerName == "" {
		return nil, CallbackOutput{}, fmt.Errorf("customer_name is required")
	}

	cb := models.Callback{
		CustomerName:   input.CustomerName,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		SalesAgentID:   h.identity.ID,
		SalesAgentName: h.identity.Name,
		Team:           h.identity.Team,
		Priority:       strings.ToLower(input.Priority),
		Notes:          input.Notes,
		ScheduledDate:  input.ScheduledDate,
		ScheduledTime:  input.ScheduledTime,
	}

	created, err := h.backend.CreateCallback(ctx, cb)
	if err != nil {
		return nil, CallbackOutput{}, err
	}
	return nil, callbackOutput(created), nil
}

type TransitionCallbackInput struct {
	ID     string `json:"id" jsonschema:"Callback id (required)"`
	Status string `json:"status" jsonschema:"Target status: contacted, completed or cancelled (required)"`
}

// TransitionCallback moves a visible callback through its status workflow.
// Invalid moves are rejected before anything reaches the backend.
func (h *CallbackHandlers) TransitionCallback(ctx context.Context, _ *mcp.CallToolRequest, input TransitionCallbackInput) (*mcp.CallToolResult, CallbackOutput, error) {
	if input.ID == "" {
		return nil, CallbackOutput{}, fmt.Errorf("id is required")
	}
	if input.Status == "" {
		return nil, CallbackOutput{}, fmt.Errorf("status is required")
	}

	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, CallbackOutput{}, err
	}
	cb, ok := findCallback(snap.Callbacks, input.ID)
	if !ok {
		return nil, CallbackOutput{}, fmt.Errorf("callback not found: %s", input.ID)
	}
	if err := models.CanEditCallback(h.identity, cb); err != nil {
		return nil, CallbackOutput{}, err
	}

	moved, err := h.backend.MoveCallback(ctx, cb, strings.ToLower(input.Status))
	if err != nil {
		return nil, CallbackOutput{}, err
	}
	return nil, callbackOutput(moved), nil
}

func (h *CallbackHandlers) DeleteCallback(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	snap, err := load(ctx, h.loader, h.identity)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	cb, ok := findCallback(snap.Callbacks, input.ID)
	if !ok {
		return nil, DeleteOutput{}, fmt.Errorf("callback not found: %s", input.ID)
	}
	if err := models.CanEditCallback(h.identity, cb); err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := h.backend.DeleteCallback(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}
