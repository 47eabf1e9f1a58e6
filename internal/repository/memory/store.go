// Package memory implements repository.Store in process memory.
// It backs the test suites and STORE_DRIVER=memory local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	accounts map[primitive.ObjectID]models.Account
	stocks   map[primitive.ObjectID]models.StockLot
	feeds    map[primitive.ObjectID]models.FeedLot
	farmers  map[primitive.ObjectID]models.Farmer
	requests map[primitive.ObjectID]models.ChickRequest
	audit    []models.AuditEntry
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[primitive.ObjectID]models.Account),
		stocks:   make(map[primitive.ObjectID]models.StockLot),
		feeds:    make(map[primitive.ObjectID]models.FeedLot),
		farmers:  make(map[primitive.ObjectID]models.Farmer),
		requests: make(map[primitive.ObjectID]models.ChickRequest),
	}
}

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

// --- accounts ---

func (s *Store) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return fmt.Errorf("%w: username %q already taken", models.ErrInvalidArgument, account.Username)
		}
	}
	account.ID = primitive.NewObjectID()
	s.accounts[account.ID] = *account
	return nil
}

func (s *Store) GetAccount(_ context.Context, id primitive.ObjectID) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: account %s", models.ErrNotFound, id.Hex())
	}
	return account, nil
}

func (s *Store) FindAccountByUsername(_ context.Context, username string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Username, username) {
			return account, nil
		}
	}
	return models.Account{}, fmt.Errorf("%w: account %q", models.ErrNotFound, username)
}

func (s *Store) DeleteAccount(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("%w: account %s", models.ErrNotFound, id.Hex())
	}
	delete(s.accounts, id)

	for reqID, req := range s.requests {
		if req.AuthorizedBy != nil && *req.AuthorizedBy == id {
			req.AuthorizedBy = nil
			s.requests[reqID] = req
		}
	}
	return nil
}

// --- stock ---

func (s *Store) CreateStock(_ context.Context, lot *models.StockLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot.ID = primitive.NewObjectID()
	s.stocks[lot.ID] = *lot
	return nil
}

func (s *Store) GetStock(_ context.Context, id primitive.ObjectID) (models.StockLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.stocks[id]
	if !ok {
		return models.StockLot{}, fmt.Errorf("%w: stock %s", models.ErrNotFound, id.Hex())
	}
	return lot, nil
}

func (s *Store) UpdateStock(_ context.Context, lot models.StockLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.stocks[lot.ID]
	if !ok {
		return fmt.Errorf("%w: stock %s", models.ErrNotFound, lot.ID.Hex())
	}
	lot.CreatedAt = current.CreatedAt
	s.stocks[lot.ID] = lot
	return nil
}

func (s *Store) DeleteStock(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stocks[id]; !ok {
		return fmt.Errorf("%w: stock %s", models.ErrNotFound, id.Hex())
	}
	delete(s.stocks, id)
	return nil
}

func (s *Store) ListStocks(_ context.Context, filter models.ListFilter) (models.Page[models.StockLot], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.StockLot, 0, len(s.stocks))
	for _, lot := range s.stocks {
		if !matches(filter.Search, lot.Name, string(lot.Category), string(lot.Breed), lot.ManagerName) {
			continue
		}
		if filter.Category != "" && string(lot.Category) != filter.Category {
			continue
		}
		items = append(items, lot)
	}
	sort.SliceStable(items, func(i, j int) bool { return newer(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID) })
	return paginate(items, filter), nil
}

func (s *Store) SumStockQuantity(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, lot := range s.stocks {
		total += int64(lot.Quantity)
	}
	return total, nil
}

func (s *Store) StockByCategory(context.Context) ([]models.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[models.ChickCategory]int)
	for _, lot := range s.stocks {
		sums[lot.Category] += lot.Quantity
	}
	out := make([]models.CategoryTotal, 0, len(sums))
	for category, qty := range sums {
		out = append(out, models.CategoryTotal{Category: category, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// --- feed ---

func (s *Store) CreateFeed(_ context.Context, lot *models.FeedLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot.ID = primitive.NewObjectID()
	s.feeds[lot.ID] = *lot
	return nil
}

func (s *Store) ListFeeds(_ context.Context, filter models.ListFilter) (models.Page[models.FeedLot], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.FeedLot, 0, len(s.feeds))
	for _, lot := range s.feeds {
		if !matches(filter.Search, lot.Name, lot.Brand, lot.Type, lot.SupplierName) {
			continue
		}
		items = append(items, lot)
	}
	sort.SliceStable(items, func(i, j int) bool { return newer(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID) })
	return paginate(items, filter), nil
}

func (s *Store) SumFeedQuantity(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, lot := range s.feeds {
		total += int64(lot.Quantity)
	}
	return total, nil
}

// --- farmers ---

func (s *Store) CreateFarmer(_ context.Context, farmer *models.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.farmers {
		if existing.NIN == farmer.NIN {
			return fmt.Errorf("%w: national id %s already registered", models.ErrInvalidArgument, farmer.NIN)
		}
	}
	farmer.ID = primitive.NewObjectID()
	s.farmers[farmer.ID] = *farmer
	return nil
}

func (s *Store) GetFarmer(_ context.Context, id primitive.ObjectID) (models.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	farmer, ok := s.farmers[id]
	if !ok {
		return models.Farmer{}, fmt.Errorf("%w: farmer %s", models.ErrNotFound, id.Hex())
	}
	return farmer, nil
}

func (s *Store) ListFarmers(_ context.Context, filter models.ListFilter) (models.Page[models.Farmer], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Farmer, 0, len(s.farmers))
	for _, farmer := range s.farmers {
		if !matches(filter.Search, farmer.Name, farmer.NIN, farmer.Phone, farmer.RecommenderName) {
			continue
		}
		if filter.Category != "" && string(farmer.Category) != filter.Category {
			continue
		}
		if filter.Status != "" && string(farmer.Status) != filter.Status {
			continue
		}
		items = append(items, farmer)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID.Hex() < items[j].ID.Hex()
	})
	return paginate(items, filter), nil
}

func (s *Store) RecentFarmers(_ context.Context, limit int) ([]models.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Farmer, 0, len(s.farmers))
	for _, farmer := range s.farmers {
		items = append(items, farmer)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return newer(items[i].RegisteredAt, items[j].RegisteredAt, items[i].ID, items[j].ID)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SetFarmerStatus(_ context.Context, id primitive.ObjectID, status models.FarmerStatus) (models.FarmerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	farmer, ok := s.farmers[id]
	if !ok {
		return "", fmt.Errorf("%w: farmer %s", models.ErrNotFound, id.Hex())
	}
	previous := farmer.Status
	farmer.Status = status
	s.farmers[id] = farmer
	return previous, nil
}

func (s *Store) DeleteFarmer(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.farmers[id]; !ok {
		return fmt.Errorf("%w: farmer %s", models.ErrNotFound, id.Hex())
	}
	delete(s.farmers, id)
	for reqID, req := range s.requests {
		if req.FarmerID == id {
			delete(s.requests, reqID)
		}
	}
	return nil
}

func (s *Store) CountFarmers(_ context.Context, status models.FarmerStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, farmer := range s.farmers {
		if status == "" || farmer.Status == status {
			n++
		}
	}
	return n, nil
}

// --- requests ---

func (s *Store) CreateRequest(_ context.Context, req *models.ChickRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.farmers[req.FarmerID]; !ok {
		return fmt.Errorf("%w: farmer %s", models.ErrNotFound, req.FarmerID.Hex())
	}
	req.ID = primitive.NewObjectID()
	s.requests[req.ID] = *req
	return nil
}

func (s *Store) GetRequest(_ context.Context, id primitive.ObjectID) (models.ChickRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return models.ChickRequest{}, fmt.Errorf("%w: request %s", models.ErrNotFound, id.Hex())
	}
	return req, nil
}

func (s *Store) ListRequests(_ context.Context, filter models.ListFilter) (models.Page[models.ChickRequest], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ChickRequest, 0, len(s.requests))
	for _, req := range s.requests {
		if filter.Status != "" && string(req.Status) != filter.Status {
			continue
		}
		if !matches(filter.Search, req.FarmerName, string(req.Category), string(req.Breed)) {
			continue
		}
		items = append(items, req)
	}
	sortRequests(items)
	return paginate(items, filter), nil
}

func (s *Store) ListFarmerRequests(_ context.Context, farmerID primitive.ObjectID) ([]models.ChickRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ChickRequest, 0)
	for _, req := range s.requests {
		if req.FarmerID == farmerID {
			items = append(items, req)
		}
	}
	sortRequests(items)
	return items, nil
}

func (s *Store) TransitionRequest(_ context.Context, id primitive.ObjectID, from, to models.RequestStatus) (models.ChickRequest, error) {
	if !from.CanTransition(to) {
		return models.ChickRequest{}, fmt.Errorf("%w: cannot move a request from %s to %s", models.ErrInvalidArgument, from, to)
	}
	return s.updateRequest(id, func(req *models.ChickRequest) error {
		if req.Status != from {
			return fmt.Errorf("%w: request is %s, expected %s", models.ErrInvalidState, req.Status, from)
		}
		req.Status = to
		return nil
	})
}

func (s *Store) MarkSold(_ context.Context, id primitive.ObjectID, sale models.Sale) (models.ChickRequest, error) {
	return s.updateRequest(id, func(req *models.ChickRequest) error {
		if !req.Status.CanTransition(models.RequestSold) {
			return fmt.Errorf("%w: request is %s, expected %s", models.ErrInvalidState, req.Status, models.RequestApproved)
		}
		agent := sale.AgentID
		at := sale.At
		req.Status = models.RequestSold
		req.SalesAuthorized = true
		req.AuthorizedBy = &agent
		req.AuthorizedAt = &at
		return nil
	})
}

func (s *Store) MarkDelivered(_ context.Context, id primitive.ObjectID) (models.ChickRequest, error) {
	return s.updateRequest(id, func(req *models.ChickRequest) error {
		if req.Status != models.RequestSold {
			return fmt.Errorf("%w: request is %s, expected %s", models.ErrInvalidState, req.Status, models.RequestSold)
		}
		req.Delivered = models.Yes
		return nil
	})
}

func (s *Store) CountRequests(_ context.Context, status models.RequestStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, req := range s.requests {
		if status == "" || req.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountAgentSales(_ context.Context, agentID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, req := range s.requests {
		if req.AuthorizedBy != nil && *req.AuthorizedBy == agentID {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListSoldBetween(_ context.Context, start, end time.Time) ([]models.ChickRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ChickRequest, 0)
	for _, req := range s.requests {
		if req.Status != models.RequestSold || req.AuthorizedAt == nil {
			continue
		}
		if req.AuthorizedAt.Before(start) || !req.AuthorizedAt.Before(end) {
			continue
		}
		items = append(items, req)
	}
	sortRequests(items)
	return items, nil
}

// --- audit ---

func (s *Store) AppendAudit(_ context.Context, entry *models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = primitive.NewObjectID()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *Store) ListAudit(_ context.Context, entityID primitive.ObjectID) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AuditEntry, 0)
	for _, entry := range s.audit {
		if entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// updateRequest applies mutate under the write lock; the record is only stored
// back when mutate succeeds.
func (s *Store) updateRequest(id primitive.ObjectID, mutate func(*models.ChickRequest) error) (models.ChickRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return models.ChickRequest{}, fmt.Errorf("%w: request %s", models.ErrNotFound, id.Hex())
	}
	if err := mutate(&req); err != nil {
		return models.ChickRequest{}, err
	}
	s.requests[id] = req
	return req, nil
}

func sortRequests(items []models.ChickRequest) {
	sort.SliceStable(items, func(i, j int) bool {
		return newer(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID)
	})
}

// newer orders by timestamp descending, falling back to id for equal timestamps.
func newer(a, b time.Time, aID, bID primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID.Hex() > bID.Hex()
}

func matches(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, filter models.ListFilter) models.Page[T] {
	filter = filter.Normalize()
	page := models.Page[T]{
		Items:    []T{},
		Total:    int64(len(items)),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	start := filter.Skip()
	if start >= len(items) {
		return page
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	page.Items = items[start:end]
	return page
}
