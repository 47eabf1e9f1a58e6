// Package reporting derives dashboard projections and sales-agent reports from
// the current state of the store. Nothing is cached; every call recomputes.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
)

const (
	dateLayout        = "2006-01-02"
	defaultReportDays = 30
	weeklyReportDays  = 7
	recentLimit       = 5
)

// Store is the read surface reporting needs.
type Store interface {
	repository.Accounts
	repository.Stocks
	repository.Feeds
	repository.Farmers
	repository.Requests
}

// Service exposes dashboard and sales analytics.
type Service struct {
	store     Store
	unitPrice int64
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a reporting service. unitPrice is the per-chick price used for
// revenue; loc decides where calendar days start and end.
func NewService(store Store, unitPrice int64, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if unitPrice <= 0 {
		unitPrice = models.DefaultChickPrice
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, unitPrice: unitPrice, loc: loc, logger: logger, now: time.Now}
}

// Stats returns the headline counts.
func (s *Service) Stats(ctx context.Context) (models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)
	if stats.TotalStock, err = s.store.SumStockQuantity(ctx); err != nil {
		return models.DashboardStats{}, fmt.Errorf("sum stock: %w", err)
	}
	if stats.TotalFeedstock, err = s.store.SumFeedQuantity(ctx); err != nil {
		return models.DashboardStats{}, fmt.Errorf("sum feed: %w", err)
	}
	if stats.TotalFarmers, err = s.store.CountFarmers(ctx, ""); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count farmers: %w", err)
	}
	if stats.PendingRequests, err = s.store.CountRequests(ctx, models.RequestPending); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count pending requests: %w", err)
	}
	if stats.ApprovedRequests, err = s.store.CountRequests(ctx, models.RequestApproved); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count approved requests: %w", err)
	}
	if stats.RejectedRequests, err = s.store.CountRequests(ctx, models.RequestRejected); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count rejected requests: %w", err)
	}
	return stats, nil
}

// ManagerDashboard returns the stats plus inventory breakdown and recent activity.
func (s *Service) ManagerDashboard(ctx context.Context) (models.ManagerDashboard, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return models.ManagerDashboard{}, err
	}
	dash := models.ManagerDashboard{DashboardStats: stats}

	if dash.SoldRequests, err = s.store.CountRequests(ctx, models.RequestSold); err != nil {
		return models.ManagerDashboard{}, fmt.Errorf("count sold requests: %w", err)
	}
	if dash.StockByType, err = s.store.StockByCategory(ctx); err != nil {
		return models.ManagerDashboard{}, fmt.Errorf("stock by category: %w", err)
	}

	recent := models.ListFilter{Page: 1, PageSize: recentLimit}
	stocks, err := s.store.ListStocks(ctx, recent)
	if err != nil {
		return models.ManagerDashboard{}, fmt.Errorf("recent stocks: %w", err)
	}
	requests, err := s.store.ListRequests(ctx, recent)
	if err != nil {
		return models.ManagerDashboard{}, fmt.Errorf("recent requests: %w", err)
	}
	dash.RecentStocks = stocks.Items
	dash.RecentRequests = requests.Items
	return dash, nil
}

// SalesDashboard returns the counts a sales agent works from, including the
// number of sales the actor authorized.
func (s *Service) SalesDashboard(ctx context.Context, actor models.Actor) (models.SalesDashboard, error) {
	var (
		dash models.SalesDashboard
		err  error
	)
	if dash.TotalFarmers, err = s.store.CountFarmers(ctx, ""); err != nil {
		return models.SalesDashboard{}, fmt.Errorf("count farmers: %w", err)
	}
	if dash.ApprovedFarmers, err = s.store.CountFarmers(ctx, models.FarmerApproved); err != nil {
		return models.SalesDashboard{}, fmt.Errorf("count approved farmers: %w", err)
	}

	counts := []struct {
		status models.RequestStatus
		dst    *int64
	}{
		{models.RequestPending, &dash.PendingRequests},
		{models.RequestApproved, &dash.ApprovedRequests},
		{models.RequestSold, &dash.SoldRequests},
		{"", &dash.TotalRequests},
	}
	for _, c := range counts {
		if *c.dst, err = s.store.CountRequests(ctx, c.status); err != nil {
			return models.SalesDashboard{}, fmt.Errorf("count requests %q: %w", c.status, err)
		}
	}

	if dash.MySales, err = s.store.CountAgentSales(ctx, actor.ID); err != nil {
		return models.SalesDashboard{}, fmt.Errorf("count agent sales: %w", err)
	}
	if dash.RecentFarmers, err = s.store.RecentFarmers(ctx, recentLimit); err != nil {
		return models.SalesDashboard{}, fmt.Errorf("recent farmers: %w", err)
	}
	requests, err := s.store.ListRequests(ctx, models.ListFilter{Page: 1, PageSize: recentLimit})
	if err != nil {
		return models.SalesDashboard{}, fmt.Errorf("recent requests: %w", err)
	}
	dash.RecentRequests = requests.Items
	return dash, nil
}

// SalesAgentReport groups sold requests by the agent who authorized them.
// start and end are calendar days; both are inclusive. Zero values default to the
// last 30 days and a reversed pair is swapped.
func (s *Service) SalesAgentReport(ctx context.Context, start, end time.Time) (models.SalesReport, error) {
	first, last := s.reportRange(start, end)

	sold, err := s.store.ListSoldBetween(ctx, first, last.AddDate(0, 0, 1))
	if err != nil {
		return models.SalesReport{}, fmt.Errorf("list sold requests: %w", err)
	}

	type group struct {
		sales   models.AgentSales
		farmers map[primitive.ObjectID]struct{}
	}
	groups := make(map[primitive.ObjectID]*group)
	for _, req := range sold {
		if req.AuthorizedBy == nil {
			continue
		}
		g, ok := groups[*req.AuthorizedBy]
		if !ok {
			g = &group{
				sales:   models.AgentSales{AgentID: *req.AuthorizedBy},
				farmers: make(map[primitive.ObjectID]struct{}),
			}
			groups[*req.AuthorizedBy] = g
		}
		g.sales.Sales++
		g.sales.ChicksSold += int64(req.Quantity)
		g.sales.Revenue += int64(req.Quantity) * s.unitPrice
		g.farmers[req.FarmerID] = struct{}{}
	}

	agents := make([]models.AgentSales, 0, len(groups))
	for id, g := range groups {
		g.sales.FarmersServed = len(g.farmers)
		g.sales.AgentName = s.agentName(ctx, id)
		agents = append(agents, g.sales)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Revenue != agents[j].Revenue {
			return agents[i].Revenue > agents[j].Revenue
		}
		return agents[i].AgentName < agents[j].AgentName
	})

	return models.SalesReport{Start: first, End: last, Agents: agents}, nil
}

// WeeklySummary computes the report for the last seven days, today included,
// and renders it as a short text message.
func (s *Service) WeeklySummary(ctx context.Context) (models.SalesReport, string, error) {
	today := s.day(s.now())
	report, err := s.SalesAgentReport(ctx, today.AddDate(0, 0, -(weeklyReportDays-1)), today)
	if err != nil {
		return models.SalesReport{}, "", err
	}
	return report, FormatReport(report), nil
}

// FormatReport renders a sales report as plain text.
func FormatReport(report models.SalesReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sales report (%s to %s)", report.Start.Format(dateLayout), report.End.Format(dateLayout))
	if len(report.Agents) == 0 {
		b.WriteString(": no sales authorized.")
		return b.String()
	}

	var chicks, revenue int64
	for _, agent := range report.Agents {
		fmt.Fprintf(&b, "\n- %s: %d sales, %d chicks, %d farmers, UGX %d",
			agent.AgentName, agent.Sales, agent.ChicksSold, agent.FarmersServed, agent.Revenue)
		chicks += agent.ChicksSold
		revenue += agent.Revenue
	}
	fmt.Fprintf(&b, "\nTotal: %d chicks, UGX %d", chicks, revenue)
	return b.String()
}

// ParseDay parses a YYYY-MM-DD value as a calendar day in the service location.
// An empty value yields the zero time.
func (s *Service) ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", models.ErrInvalidArgument, value)
	}
	return t, nil
}

func (s *Service) reportRange(start, end time.Time) (time.Time, time.Time) {
	today := s.day(s.now())
	switch {
	case start.IsZero() && end.IsZero():
		return today.AddDate(0, 0, -defaultReportDays), today
	case end.IsZero():
		end = today
	case start.IsZero():
		start = s.day(end).AddDate(0, 0, -defaultReportDays)
	}

	first, last := s.day(start), s.day(end)
	if first.After(last) {
		first, last = last, first
	}
	return first, last
}

// day truncates t to midnight of its calendar day in the service location.
func (s *Service) day(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *Service) agentName(ctx context.Context, id primitive.ObjectID) string {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("lookup sales agent", zap.String("agent_id", id.Hex()), zap.Error(err))
		}
		return id.Hex()
	}
	return account.Username
}
