package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository/memory"
)

var eat = time.FixedZone("EAT", 3*60*60)

type fixture struct {
	store  *memory.Store
	svc    *Service
	agentA models.Account
	agentB models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, 0, eat, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, eat) }

	f := &fixture{store: store, svc: svc}
	f.agentA = models.Account{Username: "akello", Role: models.RoleSalesAgent}
	f.agentB = models.Account{Username: "birungi", Role: models.RoleSalesAgent}
	require.NoError(t, store.CreateAccount(ctx, &f.agentA))
	require.NoError(t, store.CreateAccount(ctx, &f.agentB))
	return f
}

func (f *fixture) farmer(t *testing.T, name, nin string) models.Farmer {
	t.Helper()
	farmer := models.Farmer{Name: name, NIN: nin, Status: models.FarmerApproved}
	require.NoError(t, f.store.CreateFarmer(context.Background(), &farmer))
	return farmer
}

func (f *fixture) sell(t *testing.T, farmer models.Farmer, agent models.Account, qty int, at time.Time) {
	t.Helper()
	ctx := context.Background()
	req := models.ChickRequest{
		FarmerID:   farmer.ID,
		FarmerName: farmer.Name,
		Category:   models.CategoryBroilers,
		Quantity:   qty,
		Status:     models.RequestApproved,
		CreatedAt:  at.Add(-time.Hour),
	}
	require.NoError(t, f.store.CreateRequest(ctx, &req))
	_, err := f.store.MarkSold(ctx, req.ID, models.Sale{AgentID: agent.ID, At: at})
	require.NoError(t, err)
}

func TestSalesAgentReportDefaultsToLast30Days(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amina := f.farmer(t, "Amina", "CM000000000001")
	joseph := f.farmer(t, "Joseph", "CM000000000002")

	f.sell(t, amina, f.agentA, 10, time.Date(2026, 3, 10, 9, 0, 0, 0, eat))
	f.sell(t, amina, f.agentA, 5, time.Date(2026, 3, 12, 9, 0, 0, 0, eat))
	f.sell(t, joseph, f.agentB, 20, time.Date(2026, 3, 13, 0, 30, 0, 0, eat))
	f.sell(t, joseph, f.agentB, 99, time.Date(2026, 1, 2, 9, 0, 0, 0, eat))

	report, err := f.svc.SalesAgentReport(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 12, 0, 0, 0, 0, eat), report.Start)
	require.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, eat), report.End)
	require.Len(t, report.Agents, 2)

	require.Equal(t, models.AgentSales{
		AgentID:       f.agentB.ID,
		AgentName:     "birungi",
		Sales:         1,
		ChicksSold:    20,
		Revenue:       20 * models.DefaultChickPrice,
		FarmersServed: 1,
	}, report.Agents[0])
	require.Equal(t, models.AgentSales{
		AgentID:       f.agentA.ID,
		AgentName:     "akello",
		Sales:         2,
		ChicksSold:    15,
		Revenue:       15 * models.DefaultChickPrice,
		FarmersServed: 1,
	}, report.Agents[1])
}

func TestSalesAgentReportUsesLocalCalendarDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	joseph := f.farmer(t, "Joseph", "CM000000000002")

	// 00:30 EAT on the 13th is still the 12th in UTC.
	f.sell(t, joseph, f.agentB, 20, time.Date(2026, 3, 13, 0, 30, 0, 0, eat))

	day, err := f.svc.ParseDay("2026-03-13")
	require.NoError(t, err)
	report, err := f.svc.SalesAgentReport(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, report.Agents, 1)

	day, err = f.svc.ParseDay("2026-03-12")
	require.NoError(t, err)
	report, err = f.svc.SalesAgentReport(ctx, day, day)
	require.NoError(t, err)
	require.Empty(t, report.Agents)
}

func TestSalesAgentReportSwapsReversedRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amina := f.farmer(t, "Amina", "CM000000000001")
	f.sell(t, amina, f.agentA, 10, time.Date(2026, 3, 10, 9, 0, 0, 0, eat))

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, eat)
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, eat)

	forward, err := f.svc.SalesAgentReport(ctx, start, end)
	require.NoError(t, err)
	reversed, err := f.svc.SalesAgentReport(ctx, end, start)
	require.NoError(t, err)
	require.Equal(t, forward, reversed)
	require.Len(t, forward.Agents, 1)
}

func TestSalesAgentReportSkipsClearedAuthorizer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amina := f.farmer(t, "Amina", "CM000000000001")
	f.sell(t, amina, f.agentA, 10, time.Date(2026, 3, 10, 9, 0, 0, 0, eat))
	f.sell(t, amina, f.agentB, 4, time.Date(2026, 3, 11, 9, 0, 0, 0, eat))

	require.NoError(t, f.store.DeleteAccount(ctx, f.agentA.ID))

	report, err := f.svc.SalesAgentReport(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, report.Agents, 1)
	require.Equal(t, f.agentB.ID, report.Agents[0].AgentID)
}

func TestParseDay(t *testing.T) {
	f := newFixture(t)

	day, err := f.svc.ParseDay("")
	require.NoError(t, err)
	require.True(t, day.IsZero())

	_, err = f.svc.ParseDay("14/03/2026")
	require.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestStatsAndDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int{100, 250, 0} {
		lot := models.StockLot{Name: "lot", Category: models.CategoryLayers, Quantity: qty, CreatedAt: time.Now()}
		require.NoError(t, f.store.CreateStock(ctx, &lot))
	}
	feed := models.FeedLot{Name: "mash", Quantity: 12, CreatedAt: time.Now()}
	require.NoError(t, f.store.CreateFeed(ctx, &feed))

	amina := f.farmer(t, "Amina", "CM000000000001")
	pending := models.ChickRequest{FarmerID: amina.ID, Quantity: 3, Status: models.RequestPending, CreatedAt: time.Now()}
	require.NoError(t, f.store.CreateRequest(ctx, &pending))
	f.sell(t, amina, f.agentA, 10, time.Date(2026, 3, 10, 9, 0, 0, 0, eat))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, models.DashboardStats{
		TotalStock:      350,
		TotalFeedstock:  12,
		TotalFarmers:    1,
		PendingRequests: 1,
	}, stats)

	manager, err := f.svc.ManagerDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), manager.SoldRequests)
	require.Equal(t, []models.CategoryTotal{{Category: models.CategoryLayers, Quantity: 350}}, manager.StockByType)
	require.Len(t, manager.RecentStocks, 3)
	require.Len(t, manager.RecentRequests, 2)

	sales, err := f.svc.SalesDashboard(ctx, f.agentA.Actor())
	require.NoError(t, err)
	require.Equal(t, int64(1), sales.MySales)
	require.Equal(t, int64(1), sales.ApprovedFarmers)
	require.Equal(t, int64(2), sales.TotalRequests)

	other, err := f.svc.SalesDashboard(ctx, f.agentB.Actor())
	require.NoError(t, err)
	require.Zero(t, other.MySales)
}

func TestFormatReport(t *testing.T) {
	report := models.SalesReport{
		Start: time.Date(2026, 3, 8, 0, 0, 0, 0, eat),
		End:   time.Date(2026, 3, 14, 0, 0, 0, 0, eat),
	}
	require.Equal(t, "Sales report (2026-03-08 to 2026-03-14): no sales authorized.", FormatReport(report))

	report.Agents = []models.AgentSales{{AgentName: "akello", Sales: 2, ChicksSold: 15, Revenue: 24750, FarmersServed: 1}}
	require.Equal(t,
		"Sales report (2026-03-08 to 2026-03-14)\n- akello: 2 sales, 15 chicks, 1 farmers, UGX 24750\nTotal: 15 chicks, UGX 24750",
		FormatReport(report))
}

func TestWeeklySummaryCoversSevenDays(t *testing.T) {
	f := newFixture(t)
	amina := f.farmer(t, "Amina", "CM000000000001")
	f.sell(t, amina, f.agentA, 10, time.Date(2026, 3, 8, 9, 0, 0, 0, eat))
	f.sell(t, amina, f.agentA, 7, time.Date(2026, 3, 7, 9, 0, 0, 0, eat))

	report, text, err := f.svc.WeeklySummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, eat), report.Start)
	require.Len(t, report.Agents, 1)
	require.Equal(t, int64(10), report.Agents[0].ChicksSold)
	require.Contains(t, text, "akello")
}
