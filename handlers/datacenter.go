// ABOUTME: Data center and feedback MCP tool handlers
// ABOUTME: Implements list_data_center, post_data_center, delete_data_center, list_feedback, add_feedback and set_feedback_status
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/salesdesk/backend"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DataCenterHandlers struct {
	backend  Backend
	identity models.Identity
	days     int
}

func NewDataCenterHandlers(b Backend, identity models.Identity, days int) *DataCenterHandlers {
	return &DataCenterHandlers{backend: b, identity: identity, days: days}
}

type ListDataCenterInput struct {
	DataType string `json:"data_type,omitempty" jsonschema:"Only return entries of this type: general, file, announcement, training, policy"`
}

type ListDataCenterOutput struct {
	Entries []models.DataCenterEntry `json:"entries"`
}

func (h *DataCenterHandlers) ListDataCenter(ctx context.Context, _ *mcp.CallToolRequest, input ListDataCenterInput) (*mcp.CallToolResult, ListDataCenterOutput, error) {
	res := h.backend.DataCenterEntries(ctx, backend.QueryFor(h.identity, h.days))
	if !res.Success {
		return nil, ListDataCenterOutput{}, fmt.Errorf("failed to list data center entries: %w", res.Err)
	}

	entries := report.VisibleEntries(res.Entries, h.identity)
	if input.DataType != "" {
		entries = filter(entries, func(e models.DataCenterEntry) bool { return e.DataType == input.DataType })
	}
	return nil, ListDataCenterOutput{Entries: entries}, nil
}

type PostDataCenterInput struct {
	Title       string `json:"title" jsonschema:"Entry title (required)"`
	Description string `json:"description,omitempty" jsonschema:"Short description"`
	Content     string `json:"content,omitempty" jsonschema:"Body of the announcement"`
	DataType    string `json:"data_type,omitempty" jsonschema:"Type: general, file, announcement, training, policy (default general)"`
	Priority    string `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, urgent (default medium)"`
	SentToTeam  string `json:"sent_to_team,omitempty" jsonschema:"Team to address; set this or sent_to_id"`
	SentToID    string `json:"sent_to_id,omitempty" jsonschema:"User id to address; set this or sent_to_team"`
}

type DataCenterOutput struct {
	Entry models.DataCenterEntry `json:"entry"`
}

func (h *DataCenterHandlers) PostDataCenter(ctx context.Context, _ *mcp.CallToolRequest, input PostDataCenterInput) (*mcp.CallToolResult, DataCenterOutput, error) {
	entry := models.DataCenterEntry{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		DataType:    strings.ToLower(input.DataType),
		Priority:    strings.ToLower(input.Priority),
		SentToTeam:  input.SentToTeam,
		SentToID:    input.SentToID,
		SentByID:    h.identity.ID,
		SentByName:  h.identity.Name,
	}
	if err := models.CanPostDataCenterEntry(h.identity, entry); err != nil {
		return nil, DataCenterOutput{}, err
	}

	created, err := h.backend.CreateDataCenterEntry(ctx, entry)
	if err != nil {
		return nil, DataCenterOutput{}, err
	}
	return nil, DataCenterOutput{Entry: created}, nil
}

func (h *DataCenterHandlers) DeleteDataCenter(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := models.CanDeleteDataCenterEntry(h.identity); err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.backend.DeleteDataCenterEntry(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}

type ListFeedbackInput struct {
	DataID string `json:"data_id,omitempty" jsonschema:"Data center entry id; empty lists all visible feedback"`
}

type ListFeedbackOutput struct {
	Feedback []models.Feedback `json:"feedback"`
}

func (h *DataCenterHandlers) ListFeedback(ctx context.Context, _ *mcp.CallToolRequest, input ListFeedbackInput) (*mcp.CallToolResult, ListFeedbackOutput, error) {
	res := h.backend.Feedback(ctx, input.DataID)
	if !res.Success {
		return nil, ListFeedbackOutput{}, fmt.Errorf("failed to list feedback: %w", res.Err)
	}
	return nil, ListFeedbackOutput{Feedback: report.VisibleFeedback(res.Feedback, h.identity)}, nil
}

type AddFeedbackInput struct {
	DataID       string `json:"data_id" jsonschema:"Data center entry id (required)"`
	Text         string `json:"text" jsonschema:"Feedback text (required)"`
	Rating       int    `json:"rating,omitempty" jsonschema:"Rating from 1 to 5"`
	FeedbackType string `json:"feedback_type,omitempty" jsonschema:"Type: general, question, suggestion, concern, acknowledgment (default general)"`
}

type FeedbackOutput struct {
	Feedback models.Feedback `json:"feedback"`
}

func (h *DataCenterHandlers) AddFeedback(ctx context.Context, _ *mcp.CallToolRequest, input AddFeedbackInput) (*mcp.CallToolResult, FeedbackOutput, error) {
	fb := models.Feedback{
		DataID:       input.DataID,
		UserID:       h.identity.ID,
		UserName:     h.identity.Name,
		UserRole:     h.identity.Role,
		FeedbackText: input.Text,
		Rating:       input.Rating,
		FeedbackType: strings.ToLower(input.FeedbackType),
	}

	created, err := h.backend.CreateFeedback(ctx, fb)
	if err != nil {
		return nil, FeedbackOutput{}, err
	}
	return nil, FeedbackOutput{Feedback: created}, nil
}

type SetFeedbackStatusInput struct {
	ID     string `json:"id" jsonschema:"Feedback id (required)"`
	Status string `json:"status" jsonschema:"Status: pending, in_progress, resolved, closed (required)"`
}

type SetFeedbackStatusOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *DataCenterHandlers) SetFeedbackStatus(ctx context.Context, _ *mcp.CallToolRequest, input SetFeedbackStatusInput) (*mcp.CallToolResult, SetFeedbackStatusOutput, error) {
	if err := models.CanSetFeedbackStatus(h.identity); err != nil {
		return nil, SetFeedbackStatusOutput{}, err
	}
	status := strings.ToLower(input.Status)
	if err := h.backend.UpdateFeedbackStatus(ctx, input.ID, status); err != nil {
		return nil, SetFeedbackStatusOutput{}, err
	}
	return nil, SetFeedbackStatusOutput{ID: input.ID, Status: status}, nil
}
