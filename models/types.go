// ABOUTME: Canonical data models for the sales dashboard
// ABOUTME: Defines Deal, Callback, DataCenterEntry, Feedback and Identity structs
package models

type Deal struct {
	DealID           string    `json:"dealId"`
	CustomerName     string    `json:"customerName"`
	Amount           Money     `json:"amount"`
	SalesAgentID     string    `json:"salesAgentId,omitempty"`
	SalesAgentName   string    `json:"salesAgentName,omitempty"`
	ClosingAgentID   string    `json:"closingAgentId,omitempty"`
	ClosingAgentName string    `json:"closingAgentName,omitempty"`
	Team             string    `json:"team,omitempty"`
	ServiceTier      string    `json:"serviceTier,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        Timestamp `json:"createdAt"`
}

type Callback struct {
	CallbackID     string    `json:"callbackId"`
	CustomerName   string    `json:"customerName"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	Email          string    `json:"email,omitempty"`
	SalesAgentID   string    `json:"salesAgentId,omitempty"`
	SalesAgentName string    `json:"salesAgentName,omitempty"`
	Team           string    `json:"team,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      Timestamp `json:"createdAt"`
	ScheduledDate  string    `json:"scheduledDate,omitempty"`
	ScheduledTime  string    `json:"scheduledTime,omitempty"`
}

// DataCenterEntry is a manager-authored announcement or file share,
// addressed to a team or to a single user.
type DataCenterEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	DataType    string    `json:"dataType"`
	Priority    string    `json:"priority"`
	SentToTeam  string    `json:"sentToTeam,omitempty"`
	SentToID    string    `json:"sentToId,omitempty"`
	SentByID    string    `json:"sentById,omitempty"`
	SentByName  string    `json:"sentByName,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
}

type Feedback struct {
	ID           string    `json:"id"`
	DataID       string    `json:"dataId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName,omitempty"`
	UserRole     string    `json:"userRole,omitempty"`
	FeedbackText string    `json:"feedbackText"`
	Rating       int       `json:"rating,omitempty"`
	FeedbackType string    `json:"feedbackType"`
	Status       string    `json:"status"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// Identity is the caller a view is scoped to.
type Identity struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Role        string `json:"role" yaml:"role"`
	Team        string `json:"team,omitempty" yaml:"team,omitempty"`
	ManagedTeam string `json:"managedTeam,omitempty" yaml:"managed_team,omitempty"`
}

// Roles.
const (
	RoleManager    = "manager"
	RoleTeamLeader = "team_leader"
	RoleSalesman   = "salesman"
)

// Deal statuses.
const (
	DealPending   = "pending"
	DealActive    = "active"
	DealCompleted = "completed"
	DealCancelled = "cancelled"
)

// Callback statuses.
const (
	CallbackPending   = "pending"
	CallbackContacted = "contacted"
	CallbackCompleted = "completed"
	CallbackCancelled = "cancelled"
)

// Priorities, shared by callbacks and data center entries.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Data center entry types.
const (
	DataGeneral      = "general"
	DataFile         = "file"
	DataAnnouncement = "announcement"
	DataTraining     = "training"
	DataPolicy       = "policy"
)

// Feedback types.
const (
	FeedbackGeneral        = "general"
	FeedbackQuestion       = "question"
	FeedbackSuggestion     = "suggestion"
	FeedbackConcern        = "concern"
	FeedbackAcknowledgment = "acknowledgment"
)

// Feedback statuses.
const (
	FeedbackPending    = "pending"
	FeedbackInProgress = "in_progress"
	FeedbackResolved   = "resolved"
	FeedbackClosed     = "closed"
)

// UnassignedTeam labels records with an empty team in grouped views.
const UnassignedTeam = "Unassigned"

func IsValidRole(role string) bool {
	return oneOf(role, RoleManager, RoleTeamLeader, RoleSalesman)
}

func IsValidDealStatus(status string) bool {
	return oneOf(status, DealPending, DealActive, DealCompleted, DealCancelled)
}

func IsValidCallbackStatus(status string) bool {
	return oneOf(status, CallbackPending, CallbackContacted, CallbackCompleted, CallbackCancelled)
}

func IsValidPriority(priority string) bool {
	return oneOf(priority, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent)
}

func IsValidDataType(dataType string) bool {
	return oneOf(dataType, DataGeneral, DataFile, DataAnnouncement, DataTraining, DataPolicy)
}

func IsValidFeedbackType(feedbackType string) bool {
	return oneOf(feedbackType, FeedbackGeneral, FeedbackQuestion, FeedbackSuggestion, FeedbackConcern, FeedbackAcknowledgment)
}

func IsValidFeedbackStatus(status string) bool {
	return oneOf(status, FeedbackPending, FeedbackInProgress, FeedbackResolved, FeedbackClosed)
}

func oneOf(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

// AgentIDs returns the agents that own the deal: the sourcing and the closing agent.
func (d Deal) AgentIDs() []string {
	return []string{d.SalesAgentID, d.ClosingAgentID}
}

func (d Deal) TeamName() string {
	return d.Team
}

// Value is the amount the deal contributes to grouped sums.
func (d Deal) Value() Money {
	return d.Amount
}

func (c Callback) AgentIDs() []string {
	return []string{c.SalesAgentID}
}

func (c Callback) TeamName() string {
	return c.Team
}

// Value is always zero; callbacks are counted, not summed.
func (c Callback) Value() Money {
	return 0
}

// SortValue returns the value a table column sorts by. Money sorts as
// currency units and valid timestamps as epoch milliseconds.
func (d Deal) SortValue(field string) any {
	switch field {
	case "dealId", "id":
		return d.DealID
	case "customerName", "customer":
		return d.CustomerName
	case "amount":
		return d.Amount.Float()
	case "salesAgentId":
		return d.SalesAgentID
	case "salesAgentName", "agent":
		return d.SalesAgentName
	case "closingAgentId":
		return d.ClosingAgentID
	case "closingAgentName":
		return d.ClosingAgentName
	case "team":
		return d.Team
	case "serviceTier", "tier":
		return d.ServiceTier
	case "status":
		return d.Status
	case "createdAt", "date":
		return d.CreatedAt.SortValue()
	}
	return ""
}

func (c Callback) SortValue(field string) any {
	switch field {
	case "callbackId", "id":
		return c.CallbackID
	case "customerName", "customer":
		return c.CustomerName
	case "phoneNumber":
		return c.PhoneNumber
	case "email":
		return c.Email
	case "salesAgentId":
		return c.SalesAgentID
	case "salesAgentName", "agent":
		return c.SalesAgentName
	case "team":
		return c.Team
	case "status":
		return c.Status
	case "priority":
		return priorityRank(c.Priority)
	case "createdAt", "date":
		return c.CreatedAt.SortValue()
	case "scheduledDate":
		return c.ScheduledDate + " " + c.ScheduledTime
	}
	return ""
}

// priorityRank orders priorities low to urgent; unknown values sort by name.
func priorityRank(priority string) any {
	switch priority {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return priority
}
