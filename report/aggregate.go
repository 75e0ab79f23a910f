// ABOUTME: Group-by aggregation of records into count and amount totals
// ABOUTME: Provides key functions for agent, team, tier, status and day buckets plus ordering helpers
package report

import (
	"sort"
	"time"

	"github.com/harperreed/salesdesk/models"
)

// Valued is a record that contributes an amount to grouped sums.
type Valued interface {
	Value() models.Money
}

// KeyFunc maps a record to its group key and a display label.
type KeyFunc[T any] func(T) (key, label string)

type Group[T any] struct {
	Key   string       `json:"key"`
	Label string       `json:"label"`
	Count int          `json:"count"`
	Sum   models.Money `json:"sum"`
	Items []T          `json:"-"`
}

// GroupBy folds records into groups. The sum of all group sums always equals
// the sum of all record values.
func GroupBy[T Valued](records []T, key KeyFunc[T]) map[string]*Group[T] {
	groups := make(map[string]*Group[T])
	for _, r := range records {
		k, label := key(r)
		g, ok := groups[k]
		if !ok {
			g = &Group[T]{Key: k, Label: label}
			groups[k] = g
		}
		g.Count++
		g.Sum += r.Value()
		g.Items = append(g.Items, r)
	}
	return groups
}

// SortedBySum orders groups by sum descending, ties by key ascending.
func SortedBySum[T any](groups map[string]*Group[T]) []*Group[T] {
	out := groupSlice(groups)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sum != out[j].Sum {
			return out[i].Sum > out[j].Sum
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SortedByKey orders groups by key ascending. Day keys sort chronologically.
func SortedByKey[T any](groups map[string]*Group[T]) []*Group[T] {
	out := groupSlice(groups)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Top returns the first n items of an already ordered slice. n <= 0 means no limit.
func Top[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}

func groupSlice[T any](groups map[string]*Group[T]) []*Group[T] {
	out := make([]*Group[T], 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

func agentKey(id, name string) (string, string) {
	switch {
	case id != "" && name != "":
		return id, name
	case id != "":
		return id, id
	case name != "":
		return name, name
	}
	return "unknown", "Unknown"
}

func labelOr(s, fallback string) (string, string) {
	if s == "" {
		return fallback, fallback
	}
	return s, s
}

// BySalesAgent keys deals by sales agent id, falling back to the name.
func BySalesAgent(d models.Deal) (string, string) {
	return agentKey(d.SalesAgentID, d.SalesAgentName)
}

// ByClosingAgent keys deals by closing agent, or the sales agent when no closer is recorded.
func ByClosingAgent(d models.Deal) (string, string) {
	if d.ClosingAgentID == "" && d.ClosingAgentName == "" {
		return BySalesAgent(d)
	}
	return agentKey(d.ClosingAgentID, d.ClosingAgentName)
}

func ByTeam(d models.Deal) (string, string) {
	return labelOr(d.Team, models.UnassignedTeam)
}

func ByServiceTier(d models.Deal) (string, string) {
	return labelOr(d.ServiceTier, "Unspecified")
}

func ByStatus(d models.Deal) (string, string) {
	return labelOr(d.Status, "unknown")
}

// ByDay buckets deals by the calendar date of createdAt in loc. Invalid
// timestamps share the "Invalid Date" bucket.
func ByDay(loc *time.Location) KeyFunc[models.Deal] {
	return func(d models.Deal) (string, string) {
		day := d.CreatedAt.Day(loc)
		return day, day
	}
}

func CallbackByAgent(c models.Callback) (string, string) {
	return agentKey(c.SalesAgentID, c.SalesAgentName)
}

func CallbackByTeam(c models.Callback) (string, string) {
	return labelOr(c.Team, models.UnassignedTeam)
}

func CallbackByStatus(c models.Callback) (string, string) {
	return labelOr(c.Status, "unknown")
}

// DailyTrend returns one point per calendar day for the days ending at now,
// oldest first, with zero-filled gaps. Deals outside the window or with
// invalid timestamps are left out.
func DailyTrend(deals []models.Deal, days int, now time.Time, loc *time.Location) []models.TrendPoint {
	if days <= 0 {
		return []models.TrendPoint{}
	}
	if loc == nil {
		loc = time.UTC
	}

	groups := GroupBy(deals, ByDay(loc))
	end := now.In(loc)
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	points := make([]models.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(models.DayLayout)
		point := models.TrendPoint{Day: day}
		if g, ok := groups[day]; ok {
			point.Revenue = g.Sum
			point.Count = g.Count
		}
		points = append(points, point)
	}
	return points
}
