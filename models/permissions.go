// ABOUTME: Advisory role checks for write actions
// ABOUTME: Mirrors what the dashboard lets each role do; the backend remains the authority
package models

import "fmt"

func forbidden(id Identity, action string) error {
	role := id.Role
	if role == "" {
		role = "anonymous"
	}
	return fmt.Errorf("%w: %s cannot %s", ErrForbidden, role, action)
}

// owns reports whether the identity is one of the record's agents.
func (id Identity) owns(agentIDs []string) bool {
	if id.ID == "" {
		return false
	}
	for _, agentID := range agentIDs {
		if agentID == id.ID {
			return true
		}
	}
	return false
}

// leads reports whether the identity is the team leader of team.
func (id Identity) leads(team string) bool {
	return id.Role == RoleTeamLeader && id.ManagedTeam != "" && id.ManagedTeam == team
}

func CanEditDeal(id Identity, d Deal) error {
	if id.Role == RoleManager || id.owns(d.AgentIDs()) || id.leads(d.Team) {
		return nil
	}
	return forbidden(id, "edit deal "+d.DealID)
}

func CanDeleteDeal(id Identity) error {
	if id.Role == RoleManager {
		return nil
	}
	return forbidden(id, "delete deals")
}

func CanEditCallback(id Identity, c Callback) error {
	if id.Role == RoleManager || id.owns(c.AgentIDs()) || id.leads(c.Team) {
		return nil
	}
	return forbidden(id, "edit callback "+c.CallbackID)
}

func CanPostDataCenterEntry(id Identity, e DataCenterEntry) error {
	if id.Role == RoleManager {
		return nil
	}
	if id.leads(e.SentToTeam) && e.SentToID == "" {
		return nil
	}
	return forbidden(id, "post data center entries")
}

func CanDeleteDataCenterEntry(id Identity) error {
	if id.Role == RoleManager {
		return nil
	}
	return forbidden(id, "delete data center entries")
}

func CanSetFeedbackStatus(id Identity) error {
	if id.Role == RoleManager {
		return nil
	}
	return forbidden(id, "change feedback status")
}
