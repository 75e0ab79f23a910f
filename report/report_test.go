// ABOUTME: Tests for visibility filtering, aggregation, sorting, pagination and metrics
// ABOUTME: Includes the worked examples for agent grouping, conversion and page lengths
package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/salesdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDeals() []models.Deal {
	day := func(d int) models.Timestamp {
		return models.At(time.Date(2024, 5, d, 10, 0, 0, 0, time.UTC))
	}
	return []models.Deal{
		{DealID: "d1", CustomerName: "Acme", Amount: 10000, SalesAgentID: "s1", SalesAgentName: "Sam", Team: "Alpha", ServiceTier: "Premium", Status: models.DealCompleted, CreatedAt: day(1)},
		{DealID: "d2", CustomerName: "Bolt", Amount: 20000, SalesAgentID: "s2", SalesAgentName: "Sue", ClosingAgentID: "s1", Team: "Beta", ServiceTier: "Standard", Status: models.DealActive, CreatedAt: day(1)},
		{DealID: "d3", CustomerName: "Core", Amount: 5000, SalesAgentID: "s3", SalesAgentName: "Tia", Team: "Alpha", Status: models.DealPending, CreatedAt: day(3)},
		{DealID: "d4", CustomerName: "Dyno", Amount: 7500, SalesAgentID: "s4", Team: "", ServiceTier: "Premium", Status: models.DealCancelled},
	}
}

func dealIDs(deals []models.Deal) []string {
	ids := make([]string, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.DealID)
	}
	return ids
}

func TestFilterVisibleManagerSeesAll(t *testing.T) {
	deals := sampleDeals()
	got := FilterVisible(deals, models.Identity{ID: "m1", Role: models.RoleManager})
	if diff := cmp.Diff(deals, got); diff != "" {
		t.Errorf("manager view mismatch (-want +got):\n%s", diff)
	}

	got = FilterVisible(deals, models.Identity{Role: models.RoleManager})
	assert.Len(t, got, len(deals))
}

func TestFilterVisibleSalesmanOnlyOwned(t *testing.T) {
	id := models.Identity{ID: "s1", Role: models.RoleSalesman, Team: "Alpha"}
	got := FilterVisible(sampleDeals(), id)

	assert.Equal(t, []string{"d1", "d2"}, dealIDs(got))
	for _, d := range got {
		assert.True(t, d.SalesAgentID == id.ID || d.ClosingAgentID == id.ID, "deal %s leaked", d.DealID)
	}
}

func TestFilterVisibleTeamLeader(t *testing.T) {
	id := models.Identity{ID: "s2", Role: models.RoleTeamLeader, ManagedTeam: "Alpha"}
	got := FilterVisible(sampleDeals(), id)
	assert.Equal(t, []string{"d1", "d2", "d3"}, dealIDs(got))
}

func TestFilterVisibleConservativeDefaults(t *testing.T) {
	deals := sampleDeals()

	assert.Empty(t, FilterVisible(deals, models.Identity{Role: models.RoleSalesman}))
	assert.Empty(t, FilterVisible(deals, models.Identity{Role: models.RoleTeamLeader, ManagedTeam: "Alpha"}))
	assert.Empty(t, FilterVisible(deals, models.Identity{ID: "s1", Role: "admin"}))
	assert.Empty(t, FilterVisible(deals, models.Identity{ID: "s1"}))
}

func TestFilterVisibleCallbacks(t *testing.T) {
	callbacks := []models.Callback{
		{CallbackID: "c1", SalesAgentID: "s1", Team: "Alpha"},
		{CallbackID: "c2", SalesAgentID: "s2", Team: "Alpha"},
		{CallbackID: "c3", SalesAgentID: "s3", Team: "Beta"},
	}

	got := FilterVisible(callbacks, models.Identity{ID: "s1", Role: models.RoleSalesman})
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].CallbackID)

	got = FilterVisible(callbacks, models.Identity{ID: "s3", Role: models.RoleTeamLeader, ManagedTeam: "Alpha"})
	assert.Len(t, got, 3)
}

func TestVisibleEntriesAndFeedback(t *testing.T) {
	entries := []models.DataCenterEntry{
		{ID: "e1", SentToTeam: "Alpha"},
		{ID: "e2", SentToID: "s1"},
		{ID: "e3", SentToTeam: "Beta"},
		{ID: "e4", SentToID: "s9"},
	}

	got := VisibleEntries(entries, models.Identity{ID: "s1", Role: models.RoleSalesman, Team: "Alpha"})
	assert.Equal(t, []models.DataCenterEntry{entries[0], entries[1]}, got)

	got = VisibleEntries(entries, models.Identity{ID: "t1", Role: models.RoleTeamLeader, ManagedTeam: "Beta"})
	assert.Equal(t, []models.DataCenterEntry{entries[2]}, got)

	assert.Len(t, VisibleEntries(entries, models.Identity{Role: models.RoleManager}), 4)
	assert.Empty(t, VisibleEntries(entries, models.Identity{Role: models.RoleSalesman, Team: "Alpha"}))

	feedback := []models.Feedback{{ID: "f1", UserID: "s1"}, {ID: "f2", UserID: "s2"}}
	assert.Equal(t, feedback[:1], VisibleFeedback(feedback, models.Identity{ID: "s1", Role: models.RoleSalesman}))
	assert.Len(t, VisibleFeedback(feedback, models.Identity{ID: "m", Role: models.RoleManager}), 2)
}

func TestGroupBySumInvariant(t *testing.T) {
	deals := sampleDeals()
	want := TotalRevenue(deals)

	keys := map[string]KeyFunc[models.Deal]{
		"agent":   BySalesAgent,
		"closer":  ByClosingAgent,
		"team":    ByTeam,
		"tier":    ByServiceTier,
		"status":  ByStatus,
		"day":     ByDay(time.UTC),
		"day-utc": ByDay(nil),
	}
	for name, key := range keys {
		var sum models.Money
		count := 0
		for _, g := range GroupBy(deals, key) {
			sum += g.Sum
			count += g.Count
		}
		assert.Equal(t, want, sum, name)
		assert.Equal(t, len(deals), count, name)
	}
}

func TestGroupByEmptyAndFallbacks(t *testing.T) {
	assert.Empty(t, GroupBy([]models.Deal{}, BySalesAgent))

	groups := GroupBy(sampleDeals(), ByTeam)
	require.Contains(t, groups, models.UnassignedTeam)
	assert.Equal(t, 1, groups[models.UnassignedTeam].Count)

	days := GroupBy(sampleDeals(), ByDay(time.UTC))
	require.Contains(t, days, models.InvalidDate)
	assert.Equal(t, 2, days["2024-05-01"].Count)

	closers := GroupBy(sampleDeals(), ByClosingAgent)
	assert.Equal(t, models.Money(30000), closers["s1"].Sum)
}

func TestGroupByAgentExample(t *testing.T) {
	deals := []models.Deal{
		{Amount: 10000, SalesAgentID: "A"},
		{Amount: 20000, SalesAgentID: "B"},
		{Amount: 5000, SalesAgentID: "A"},
	}

	groups := GroupBy(deals, BySalesAgent)
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups["A"].Count)
	assert.Equal(t, models.Money(15000), groups["A"].Sum)
	assert.Equal(t, 1, groups["B"].Count)
	assert.Equal(t, models.Money(20000), groups["B"].Sum)

	ordered := SortedBySum(groups)
	got := []string{ordered[0].Key, ordered[1].Key}
	if diff := cmp.Diff([]string{"B", "A"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, Top(ordered, 1), 1)
	assert.Len(t, Top(ordered, 10), 2)
}

func TestTopTreatsNonPositiveAsUnlimited(t *testing.T) {
	rows := []AgentRow{{AgentID: "a"}, {AgentID: "b"}, {AgentID: "c"}}
	assert.Len(t, Top(rows, 0), 3)
	assert.Len(t, Top(rows, -1), 3)
	assert.Len(t, Top(rows, 3), 3)

	top := Top(rows, 2)
	if len(top) != 2 || top[0].AgentID != "a" || top[1].AgentID != "b" {
		t.Fatalf("Top(rows, 2) = %+v, want the first two rows", top)
	}
	assert.Empty(t, Top([]AgentRow(nil), 5))
}

func TestSortedByKeyIsChronological(t *testing.T) {
	ordered := SortedByKey(GroupBy(sampleDeals(), ByDay(time.UTC)))
	keys := make([]string, 0, len(ordered))
	for _, g := range ordered {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-03", models.InvalidDate}, keys)
}

func TestDailyTrendZeroFills(t *testing.T) {
	now := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
	trend := DailyTrend(sampleDeals(), 4, now, time.UTC)

	want := []models.TrendPoint{
		{Day: "2024-04-30"},
		{Day: "2024-05-01", Revenue: 30000, Count: 2},
		{Day: "2024-05-02"},
		{Day: "2024-05-03", Revenue: 5000, Count: 1},
	}
	if diff := cmp.Diff(want, trend); diff != "" {
		t.Errorf("trend mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, DailyTrend(sampleDeals(), 0, now, nil))
}

func TestCompare(t *testing.T) {
	assert.Negative(t, Compare(9, 10))
	assert.Positive(t, Compare(10.5, 2))
	assert.Zero(t, Compare(int64(3), 3.0))
	assert.Negative(t, Compare("10", "9"), "mixed-type columns compare as strings")
	assert.Negative(t, Compare(10, "9"))
	assert.Negative(t, Compare("apple", "Banana"))
	assert.Zero(t, Compare("same", "same"))
}

func TestSortIsStableOnTies(t *testing.T) {
	deals := []models.Deal{
		{DealID: "a", Amount: 100},
		{DealID: "b", Amount: 200},
		{DealID: "c", Amount: 100},
		{DealID: "d", Amount: 200},
		{DealID: "e", Amount: 100},
	}

	asc := Sort(deals, "amount", Asc)
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, dealIDs(asc))

	desc := Sort(deals, "amount", Desc)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, dealIDs(desc))

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, dealIDs(deals), "input must not be reordered")
}

func TestSortByDateIsNumeric(t *testing.T) {
	sorted := Sort(sampleDeals(), "createdAt", Asc)
	assert.Equal(t, []string{"d1", "d2", "d3", "d4"}, dealIDs(sorted))
}

func TestSortState(t *testing.T) {
	s := SortState{}.Toggle("amount")
	assert.Equal(t, SortState{Field: "amount", Direction: Asc}, s)

	s = s.Toggle("amount")
	assert.Equal(t, Desc, s.Direction)

	s = s.Toggle("amount")
	assert.Equal(t, Asc, s.Direction)

	s = s.Toggle("amount").Toggle("team")
	assert.Equal(t, SortState{Field: "team", Direction: Asc}, s)

	assert.Equal(t, Desc, ParseDirection("desc"))
	assert.Equal(t, Asc, ParseDirection("sideways"))
}

func numberedDeals(n int) []models.Deal {
	deals := make([]models.Deal, n)
	for i := range deals {
		deals[i] = models.Deal{DealID: fmt.Sprintf("d%02d", i), Amount: models.Money(i * 100)}
	}
	return deals
}

func TestPaginateLengths(t *testing.T) {
	deals := numberedDeals(23)

	var lengths []int
	for page := 1; page <= 3; page++ {
		p := Paginate(deals, page, 10)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 23, p.Total)
		lengths = append(lengths, len(p.Items))
	}
	assert.Equal(t, []int{10, 10, 3}, lengths)
}

func TestPaginationCoverage(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 23, 40} {
		for _, size := range []int{1, 3, 10, 25} {
			deals := numberedDeals(total)
			sorted := Sort(deals, "amount", Desc)

			first := SortAndPage(deals, "amount", Desc, 1, size)
			var all []models.Deal
			for page := 1; page <= first.TotalPages; page++ {
				all = append(all, SortAndPage(deals, "amount", Desc, page, size).Items...)
			}
			if total == 0 {
				assert.Empty(t, all)
				assert.Equal(t, 1, first.TotalPages)
				continue
			}
			if diff := cmp.Diff(sorted, all); diff != "" {
				t.Errorf("total=%d size=%d pages do not rebuild the list:\n%s", total, size, diff)
			}
		}
	}
}

func TestPaginateClampsPage(t *testing.T) {
	deals := numberedDeals(5)

	p := Paginate(deals, 99, 2)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, p.Items, 1)

	p = Paginate(deals, -1, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, 5)
}

func TestAverageDealSize(t *testing.T) {
	assert.Equal(t, models.Money(0), AverageDealSize(nil))
	assert.Equal(t, models.Money(0), AverageDealSize([]models.Deal{}))
	assert.Equal(t, models.Money(10625), AverageDealSize(sampleDeals()))
}

func TestConversionRate(t *testing.T) {
	callbacks := []models.Callback{
		{Status: models.CallbackPending},
		{Status: models.CallbackPending},
		{Status: models.CallbackCompleted},
		{Status: models.CallbackCancelled},
	}
	assert.Equal(t, 25.0, ConversionRate(callbacks))
	assert.Equal(t, 0.0, ConversionRate(nil))
}

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.25, 25},
		{25, 25},
		{1, 100},
		{0, 0},
		{-3, 0},
		{140, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizePercent(tt.in), 1e-9, "NormalizePercent(%v)", tt.in)
	}
}

// A backend value of exactly 1 is a fraction (100%), anything above it is already a percentage.
func TestNormalizePercentFractionBoundary(t *testing.T) {
	if got := NormalizePercent(1); got != 100 {
		t.Fatalf("NormalizePercent(1) = %v, want 100", got)
	}
	assert.InDelta(t, 1.5, NormalizePercent(1.5), 1e-9)
	assert.InDelta(t, 50, NormalizePercent(0.5), 1e-9)
	assert.InDelta(t, 50, NormalizePercent(50), 1e-9)
	assert.InDelta(t, 100, NormalizePercent(100), 1e-9)
}

func TestSummarizeAndAgentPerformance(t *testing.T) {
	deals := sampleDeals()
	callbacks := []models.Callback{
		{SalesAgentID: "s1", Status: models.CallbackCompleted},
		{SalesAgentID: "s1", Status: models.CallbackPending},
		{SalesAgentID: "s5", SalesAgentName: "Val", Status: models.CallbackContacted},
	}

	s := Summarize(deals, callbacks)
	assert.InDelta(t, 33.333, s.ConversionRate, 0.001)
	s.ConversionRate = 0
	assert.Equal(t, models.Summary{
		TotalRevenue:       42500,
		TotalDeals:         4,
		AverageDealSize:    10625,
		CompletedDeals:     1,
		TotalCallbacks:     3,
		CompletedCallbacks: 1,
	}, s)

	rows := AgentPerformance(deals, callbacks)
	require.Len(t, rows, 5)
	assert.Equal(t, "s2", rows[0].AgentID)
	assert.Equal(t, "s1", rows[1].AgentID)
	assert.Equal(t, 2, rows[1].Callbacks)
	assert.Equal(t, 50.0, rows[1].ConversionRate)
	assert.Equal(t, "Val", rows[4].AgentName)
	assert.Equal(t, models.Money(0), rows[4].Revenue)
}

func TestBuildCharts(t *testing.T) {
	now := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	charts := BuildCharts(sampleDeals(), 7, now, time.UTC)

	assert.Len(t, charts.SalesTrend, 7)
	require.NotEmpty(t, charts.SalesByTeam)
	assert.Equal(t, models.ChartPoint{Label: "Beta", Revenue: 20000, Count: 1}, charts.SalesByTeam[0])
	require.Len(t, charts.ServiceTier, 3)
	assert.Equal(t, "Standard", charts.ServiceTier[0].Label)
	assert.Equal(t, models.ChartPoint{Label: "Premium", Revenue: 17500, Count: 2}, charts.ServiceTier[1])
}

func TestRevenueBy(t *testing.T) {
	closers, err := RevenueBy(sampleDeals(), "closing_agent")
	require.NoError(t, err)
	assert.Equal(t, []GroupTotal{
		{Key: "s1", Label: "Sam", Deals: 2, Revenue: 30000},
		{Key: "s4", Label: "s4", Deals: 1, Revenue: 7500},
		{Key: "s3", Label: "Tia", Deals: 1, Revenue: 5000},
	}, closers)

	days, err := RevenueBy(sampleDeals(), "day")
	require.NoError(t, err)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, d.Key)
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-03", models.InvalidDate}, keys)

	_, err = RevenueBy(sampleDeals(), "planet")
	assert.Error(t, err)
}
