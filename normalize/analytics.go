// ABOUTME: Normalizes backend-precomputed dashboard stats and chart series
// ABOUTME: Accepts snake_case and camelCase keys and lenient numbers throughout
package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/harperreed/salesdesk/models"
)

// Summary reads a dashboard-stats payload. ConversionRate is returned as
// sent; callers normalize its representation.
func Summary(raw Raw) (models.Summary, []Issue) {
	var issues []Issue
	s := models.Summary{}

	money := func(dst *models.Money, keys ...string) {
		m, issue := moneyField(raw, keys...)
		*dst = m
		if issue != nil {
			issue.Record = "stats"
			issues = append(issues, *issue)
		}
	}
	money(&s.TotalRevenue, "total_revenue", "totalRevenue", "revenue")
	money(&s.AverageDealSize, "avg_deal_size", "avgDealSize", "average_deal_size", "averageDealSize")

	s.TotalDeals, _ = integer(raw, "total_deals", "totalDeals", "deals")
	s.CompletedDeals, _ = integer(raw, "completed_deals", "completedDeals")
	s.TotalCallbacks, _ = integer(raw, "total_callbacks", "totalCallbacks", "callbacks")
	s.CompletedCallbacks, _ = integer(raw, "completed_callbacks", "completedCallbacks")
	s.ConversionRate, _ = float(raw, "conversion_rate", "conversionRate")

	return s, issues
}

// HasConversionRate reports whether the stats payload carried a rate.
func HasConversionRate(raw Raw) bool {
	_, ok := float(raw, "conversion_rate", "conversionRate")
	return ok
}

// Charts reads a charts payload. Malformed points are kept with zero values.
func Charts(raw Raw) (models.Charts, []Issue) {
	var issues []Issue
	charts := models.Charts{
		SalesTrend:   []models.TrendPoint{},
		SalesByAgent: []models.ChartPoint{},
		SalesByTeam:  []models.ChartPoint{},
		ServiceTier:  []models.ChartPoint{},
	}

	for i, item := range list(raw, "salesTrend", "sales_trend") {
		p, ok := item.(Raw)
		if !ok {
			issues = append(issues, Issue{Record: "charts.salesTrend", Field: strconv.Itoa(i), Value: item, Reason: "not an object"})
			continue
		}
		day := str(p, "day", "date", "_id", "label")
		if ts := ParseDate(day); ts.Valid {
			day = ts.Day(nil)
		}
		revenue, issue := moneyField(p, "revenue", "sales", "total", "amount", "value")
		if issue != nil {
			issue.Record = "charts.salesTrend"
			issues = append(issues, *issue)
		}
		count, _ := integer(p, "count", "deals", "totalDeals")
		charts.SalesTrend = append(charts.SalesTrend, models.TrendPoint{Day: day, Revenue: revenue, Count: count})
	}

	series := []struct {
		name string
		keys []string
		dst  *[]models.ChartPoint
	}{
		{"salesByAgent", []string{"salesByAgent", "sales_by_agent"}, &charts.SalesByAgent},
		{"salesByTeam", []string{"salesByTeam", "sales_by_team"}, &charts.SalesByTeam},
		{"serviceTier", []string{"serviceTier", "service_tier"}, &charts.ServiceTier},
	}
	for _, s := range series {
		for i, item := range list(raw, s.keys...) {
			p, ok := item.(Raw)
			if !ok {
				issues = append(issues, Issue{Record: "charts." + s.name, Field: strconv.Itoa(i), Value: item, Reason: "not an object"})
				continue
			}
			label := str(p, "label", "name", "agent", "agentName", "team", "tier", "serviceTier", "_id")
			revenue, issue := moneyField(p, "revenue", "sales", "total", "amount", "value")
			if issue != nil {
				issue.Record = "charts." + s.name
				issues = append(issues, *issue)
			}
			count, _ := integer(p, "count", "deals", "totalDeals")
			*s.dst = append(*s.dst, models.ChartPoint{Label: label, Revenue: revenue, Count: count})
		}
	}

	return charts, issues
}

func moneyField(raw Raw, keys ...string) (models.Money, *Issue) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		m, ok := parseMoney(v)
		if !ok {
			return 0, &Issue{Field: key, Value: v, Reason: "unparseable amount"}
		}
		if m < 0 {
			return 0, &Issue{Field: key, Value: v, Reason: "negative amount"}
		}
		return m, nil
	}
	return 0, nil
}

func float(raw Raw, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func list(raw Raw, keys ...string) []interface{} {
	for _, key := range keys {
		if items, ok := raw[key].([]interface{}); ok {
			return items
		}
	}
	return nil
}
