// Package repository declares the persistence contract of the chick-supply workflow.
//
// Implementations must report missing records with models.ErrNotFound and must apply
// status transitions as a single conditional update: when the record exists but its
// current status does not match the expected one, nothing is written and
// models.ErrInvalidState is returned.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/young4chicks/brooder/internal/domain/models"
)

// Accounts persists login accounts.
type Accounts interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id primitive.ObjectID) (models.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (models.Account, error)
	// DeleteAccount removes the account and clears it as authorizer on every request.
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
}

// Stocks persists chick stock lots.
type Stocks interface {
	CreateStock(ctx context.Context, lot *models.StockLot) error
	GetStock(ctx context.Context, id primitive.ObjectID) (models.StockLot, error)
	// UpdateStock replaces every mutable field; CreatedAt is never rewritten.
	UpdateStock(ctx context.Context, lot models.StockLot) error
	DeleteStock(ctx context.Context, id primitive.ObjectID) error
	ListStocks(ctx context.Context, filter models.ListFilter) (models.Page[models.StockLot], error)
	SumStockQuantity(ctx context.Context) (int64, error)
	StockByCategory(ctx context.Context) ([]models.CategoryTotal, error)
}

// Feeds persists feed lots.
type Feeds interface {
	CreateFeed(ctx context.Context, lot *models.FeedLot) error
	ListFeeds(ctx context.Context, filter models.ListFilter) (models.Page[models.FeedLot], error)
	SumFeedQuantity(ctx context.Context) (int64, error)
}

// Farmers persists farmers and their approval status.
type Farmers interface {
	CreateFarmer(ctx context.Context, farmer *models.Farmer) error
	GetFarmer(ctx context.Context, id primitive.ObjectID) (models.Farmer, error)
	ListFarmers(ctx context.Context, filter models.ListFilter) (models.Page[models.Farmer], error)
	RecentFarmers(ctx context.Context, limit int) ([]models.Farmer, error)
	// SetFarmerStatus writes status unconditionally and returns the previous one.
	SetFarmerStatus(ctx context.Context, id primitive.ObjectID, status models.FarmerStatus) (models.FarmerStatus, error)
	// DeleteFarmer removes the farmer together with all of its requests.
	DeleteFarmer(ctx context.Context, id primitive.ObjectID) error
	// CountFarmers counts farmers in status, or all farmers when status is empty.
	CountFarmers(ctx context.Context, status models.FarmerStatus) (int64, error)
}

// Requests persists chick requests.
type Requests interface {
	CreateRequest(ctx context.Context, req *models.ChickRequest) error
	GetRequest(ctx context.Context, id primitive.ObjectID) (models.ChickRequest, error)
	ListRequests(ctx context.Context, filter models.ListFilter) (models.Page[models.ChickRequest], error)
	ListFarmerRequests(ctx context.Context, farmerID primitive.ObjectID) ([]models.ChickRequest, error)
	// TransitionRequest moves the request from -> to only if its status is still from.
	TransitionRequest(ctx context.Context, id primitive.ObjectID, from, to models.RequestStatus) (models.ChickRequest, error)
	// MarkSold stamps the sale on an approved request in one conditional write.
	MarkSold(ctx context.Context, id primitive.ObjectID, sale models.Sale) (models.ChickRequest, error)
	// MarkDelivered flags a sold request as delivered.
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (models.ChickRequest, error)
	// CountRequests counts requests in status, or all requests when status is empty.
	CountRequests(ctx context.Context, status models.RequestStatus) (int64, error)
	CountAgentSales(ctx context.Context, agentID primitive.ObjectID) (int64, error)
	// ListSoldBetween returns sold requests with AuthorizedAt in [start, end).
	ListSoldBetween(ctx context.Context, start, end time.Time) ([]models.ChickRequest, error)
}

// Audit persists append-only audit entries.
type Audit interface {
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	ListAudit(ctx context.Context, entityID primitive.ObjectID) ([]models.AuditEntry, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	Accounts
	Stocks
	Feeds
	Farmers
	Requests
	Audit
	Close(ctx context.Context) error
}
