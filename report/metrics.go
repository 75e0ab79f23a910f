// ABOUTME: Revenue, average and conversion metrics over deal and callback lists
// ABOUTME: Conversion rates are percentages; fractions are normalized at the boundary
package report

import (
	"math"
	"sort"

	"github.com/harperreed/salesdesk/models"
)

func TotalRevenue(deals []models.Deal) models.Money {
	var total models.Money
	for _, d := range deals {
		total += d.Amount
	}
	return total
}

// AverageDealSize is total revenue over max(1, count), rounded to the cent.
func AverageDealSize(deals []models.Deal) models.Money {
	return average(TotalRevenue(deals), len(deals))
}

func average(total models.Money, count int) models.Money {
	if count < 1 {
		count = 1
	}
	return models.Money(math.Round(float64(total) / float64(count)))
}

// ConversionRate is the percentage of callbacks that were completed.
func ConversionRate(callbacks []models.Callback) float64 {
	completed := 0
	for _, c := range callbacks {
		if c.Status == models.CallbackCompleted {
			completed++
		}
	}
	return rate(completed, len(callbacks))
}

func rate(completed, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(completed) / float64(total) * 100
}

// NormalizePercent converts a rate of unknown representation into a
// percentage in [0, 100]. Values in (0, 1] are read as fractions.
func NormalizePercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v <= 1 {
		v *= 100
	}
	if v > 100 {
		return 100
	}
	return v
}

func Summarize(deals []models.Deal, callbacks []models.Callback) models.Summary {
	s := models.Summary{
		TotalRevenue:    TotalRevenue(deals),
		TotalDeals:      len(deals),
		AverageDealSize: AverageDealSize(deals),
		TotalCallbacks:  len(callbacks),
		ConversionRate:  ConversionRate(callbacks),
	}
	for _, d := range deals {
		if d.Status == models.DealCompleted {
			s.CompletedDeals++
		}
	}
	for _, c := range callbacks {
		if c.Status == models.CallbackCompleted {
			s.CompletedCallbacks++
		}
	}
	return s
}

// AgentRow is one line of the agent leaderboard.
type AgentRow struct {
	AgentID            string       `json:"agentId"`
	AgentName          string       `json:"agentName"`
	Revenue            models.Money `json:"revenue"`
	Deals              int          `json:"deals"`
	AverageDealSize    models.Money `json:"avgDealSize"`
	Callbacks          int          `json:"callbacks"`
	CompletedCallbacks int          `json:"completedCallbacks"`
	ConversionRate     float64      `json:"conversionRate"`
}

// AgentPerformance builds per-agent rows keyed by sales agent, sorted by
// revenue descending and then by agent key.
func AgentPerformance(deals []models.Deal, callbacks []models.Callback) []AgentRow {
	rows := make(map[string]*AgentRow)
	row := func(key, label string) *AgentRow {
		r, ok := rows[key]
		if !ok {
			r = &AgentRow{AgentID: key, AgentName: label}
			rows[key] = r
		}
		return r
	}

	for key, g := range GroupBy(deals, BySalesAgent) {
		r := row(key, g.Label)
		r.Revenue = g.Sum
		r.Deals = g.Count
		r.AverageDealSize = average(g.Sum, g.Count)
	}
	for key, g := range GroupBy(callbacks, CallbackByAgent) {
		r := row(key, g.Label)
		r.Callbacks = g.Count
		for _, c := range g.Items {
			if c.Status == models.CallbackCompleted {
				r.CompletedCallbacks++
			}
		}
		r.ConversionRate = rate(r.CompletedCallbacks, r.Callbacks)
	}

	out := make([]AgentRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].AgentID < out[j].AgentID
	})
	return out
}
