package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardStats is the read-only JSON projection of headline counts.
type DashboardStats struct {
	TotalStock       int64 `json:"total_stock"`
	TotalFeedstock   int64 `json:"total_feedstock"`
	TotalFarmers     int64 `json:"total_farmers"`
	PendingRequests  int64 `json:"pending_requests"`
	ApprovedRequests int64 `json:"approved_requests"`
	RejectedRequests int64 `json:"rejected_requests"`
}

// ManagerDashboard extends DashboardStats with inventory detail.
type ManagerDashboard struct {
	DashboardStats
	SoldRequests   int64           `json:"sold_requests"`
	StockByType    []CategoryTotal `json:"stock_by_type"`
	RecentStocks   []StockLot      `json:"recent_stocks"`
	RecentRequests []ChickRequest  `json:"recent_requests"`
}

// SalesDashboard is the view shown to sales agents.
type SalesDashboard struct {
	TotalFarmers     int64          `json:"total_farmers"`
	ApprovedFarmers  int64          `json:"approved_farmers"`
	PendingRequests  int64          `json:"pending_requests"`
	ApprovedRequests int64          `json:"approved_requests"`
	SoldRequests     int64          `json:"sold_requests"`
	TotalRequests    int64          `json:"total_requests"`
	MySales          int64          `json:"my_sales"`
	RecentFarmers    []Farmer       `json:"recent_farmers"`
	RecentRequests   []ChickRequest `json:"recent_requests"`
}

// AgentSales aggregates the sales one agent authorized over a period.
type AgentSales struct {
	AgentID       primitive.ObjectID `json:"agent_id"`
	AgentName     string             `json:"agent_name"`
	Sales         int                `json:"sales"`
	ChicksSold    int64              `json:"chicks_sold"`
	Revenue       int64              `json:"revenue"`
	FarmersServed int                `json:"farmers_served"`
}

// SalesReport is the per-agent sales aggregation for a date range.
type SalesReport struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Agents []AgentSales `json:"agents"`
}
