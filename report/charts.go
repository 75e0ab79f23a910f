// ABOUTME: Builds the dashboard chart series from deals
// ABOUTME: Used when the backend charts call fails or for offline reports
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/salesdesk/models"
)

// BuildCharts computes the four dashboard series locally.
func BuildCharts(deals []models.Deal, days int, now time.Time, loc *time.Location) models.Charts {
	return models.Charts{
		SalesTrend:   DailyTrend(deals, days, now, loc),
		SalesByAgent: chartPoints(GroupBy(deals, BySalesAgent)),
		SalesByTeam:  chartPoints(GroupBy(deals, ByTeam)),
		ServiceTier:  chartPoints(GroupBy(deals, ByServiceTier)),
	}
}

func chartPoints(groups map[string]*Group[models.Deal]) []models.ChartPoint {
	sorted := SortedBySum(groups)
	points := make([]models.ChartPoint, 0, len(sorted))
	for _, g := range sorted {
		points = append(points, models.ChartPoint{Label: g.Label, Revenue: g.Sum, Count: g.Count})
	}
	return points
}

// GroupTotal is one row of a revenue breakdown.
type GroupTotal struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Deals   int          `json:"deals"`
	Revenue models.Money `json:"revenue"`
}

// Dimensions lists the groupings RevenueBy accepts.
var Dimensions = []string{"agent", "closing_agent", "team", "tier", "status", "day"}

// RevenueBy breaks deals down by dimension, "agent" when empty. Days come
// back in date order and every other dimension by revenue descending.
func RevenueBy(deals []models.Deal, dimension string) ([]GroupTotal, error) {
	var key KeyFunc[models.Deal]
	switch dimension {
	case "", "agent":
		key = BySalesAgent
	case "closing_agent":
		key = ByClosingAgent
	case "team":
		key = ByTeam
	case "tier":
		key = ByServiceTier
	case "status":
		key = ByStatus
	case "day":
		key = ByDay(nil)
	default:
		return nil, fmt.Errorf("invalid grouping: %s (valid: %s)", dimension, strings.Join(Dimensions, ", "))
	}

	groups := GroupBy(deals, key)
	ordered := SortedBySum(groups)
	if dimension == "day" {
		ordered = SortedByKey(groups)
	}

	out := make([]GroupTotal, 0, len(ordered))
	for _, g := range ordered {
		out = append(out, GroupTotal{Key: g.Key, Label: g.Label, Deals: g.Count, Revenue: g.Sum})
	}
	return out, nil
}
