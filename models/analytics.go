// ABOUTME: Derived analytics shapes shared by the backend client and local aggregation
// ABOUTME: Summary mirrors dashboard-stats; Charts mirrors the charts endpoint
package models

// Summary holds headline dashboard metrics. ConversionRate is always a
// percentage in [0, 100].
type Summary struct {
	TotalRevenue       Money   `json:"totalRevenue"`
	TotalDeals         int     `json:"totalDeals"`
	AverageDealSize    Money   `json:"avgDealSize"`
	CompletedDeals     int     `json:"completedDeals"`
	TotalCallbacks     int     `json:"totalCallbacks"`
	CompletedCallbacks int     `json:"completedCallbacks"`
	ConversionRate     float64 `json:"conversionRate"`
}

// ChartPoint is one bar or slice of a categorical chart.
type ChartPoint struct {
	Label   string `json:"label"`
	Revenue Money  `json:"revenue"`
	Count   int    `json:"count"`
}

// TrendPoint is one calendar day of the sales trend line.
type TrendPoint struct {
	Day     string `json:"day"`
	Revenue Money  `json:"revenue"`
	Count   int    `json:"count"`
}

type Charts struct {
	SalesTrend   []TrendPoint `json:"salesTrend"`
	SalesByAgent []ChartPoint `json:"salesByAgent"`
	SalesByTeam  []ChartPoint `json:"salesByTeam"`
	ServiceTier  []ChartPoint `json:"serviceTier"`
}
