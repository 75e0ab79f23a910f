// ABOUTME: Role and date-range query parameters shared by every read endpoint
// ABOUTME: Encodes userRole, userId, managedTeam, dateRange, limit and page

package backend

import (
	"net/url"
	"strconv"

	"github.com/harperreed/salesdesk/models"
)

type Query struct {
	Role          string
	UserID        string
	ManagedTeam   string
	DateRangeDays int
	Limit         int
	Page          int
}

// QueryFor scopes a query to identity over the last days.
func QueryFor(id models.Identity, days int) Query {
	return Query{
		Role:          id.Role,
		UserID:        id.ID,
		ManagedTeam:   id.ManagedTeam,
		DateRangeDays: days,
	}
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Role != "" {
		v.Set("userRole", q.Role)
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	if q.ManagedTeam != "" {
		v.Set("managedTeam", q.ManagedTeam)
	}
	if q.DateRangeDays > 0 {
		v.Set("dateRange", strconv.Itoa(q.DateRangeDays))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}
