// ABOUTME: Role-based visibility filtering for deals, callbacks, data center entries and feedback
// ABOUTME: Non-manager callers without an id, and unknown roles, see nothing
package report

import "github.com/harperreed/salesdesk/models"

// Scoped is a record owned by one or more agents and labelled with a team.
type Scoped interface {
	AgentIDs() []string
	TeamName() string
}

// FilterVisible restricts records to what the identity may see. Managers get
// the input unchanged; salesmen get records they own; team leaders get
// records they own plus every record of their managed team.
func FilterVisible[T Scoped](records []T, id models.Identity) []T {
	switch id.Role {
	case models.RoleManager:
		return records
	case models.RoleSalesman, models.RoleTeamLeader:
	default:
		return []T{}
	}
	if id.ID == "" {
		return []T{}
	}

	visible := make([]T, 0, len(records))
	for _, r := range records {
		if owned(r.AgentIDs(), id.ID) {
			visible = append(visible, r)
			continue
		}
		if id.Role == models.RoleTeamLeader && id.ManagedTeam != "" && r.TeamName() == id.ManagedTeam {
			visible = append(visible, r)
		}
	}
	return visible
}

func owned(agentIDs []string, userID string) bool {
	for _, agentID := range agentIDs {
		if agentID == userID {
			return true
		}
	}
	return false
}

// VisibleEntries returns the data center entries addressed to the identity:
// directly, to their team, or to the team they lead.
func VisibleEntries(entries []models.DataCenterEntry, id models.Identity) []models.DataCenterEntry {
	if id.Role == models.RoleManager {
		return entries
	}
	if !models.IsValidRole(id.Role) || id.ID == "" {
		return []models.DataCenterEntry{}
	}

	visible := make([]models.DataCenterEntry, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.SentToID != "" && e.SentToID == id.ID:
		case e.SentToTeam != "" && e.SentToTeam == id.Team:
		case e.SentToTeam != "" && id.Role == models.RoleTeamLeader && e.SentToTeam == id.ManagedTeam:
		default:
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

// VisibleFeedback returns all feedback for managers and the caller's own otherwise.
func VisibleFeedback(feedback []models.Feedback, id models.Identity) []models.Feedback {
	if id.Role == models.RoleManager {
		return feedback
	}
	if !models.IsValidRole(id.Role) || id.ID == "" {
		return []models.Feedback{}
	}

	visible := make([]models.Feedback, 0, len(feedback))
	for _, f := range feedback {
		if f.UserID == id.ID {
			visible = append(visible, f)
		}
	}
	return visible
}
