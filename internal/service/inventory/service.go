// Package inventory manages chick stock lots and feed lots.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
	"github.com/young4chicks/brooder/pkg/validate"
)

// Store is the persistence surface inventory needs.
type Store interface {
	repository.Stocks
	repository.Feeds
}

// Service exposes inventory operations.
type Service struct {
	store        Store
	defaultPrice int64
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires an inventory service. defaultPrice applies to stock lots
// created without a price.
func NewService(store Store, defaultPrice int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPrice <= 0 {
		defaultPrice = models.DefaultChickPrice
	}
	return &Service{store: store, defaultPrice: defaultPrice, logger: logger, now: time.Now}
}

// StockInput carries the editable fields of a stock lot.
type StockInput struct {
	Name        string               `json:"stock_name" validate:"required,max=100"`
	Category    models.ChickCategory `json:"chick_type" validate:"oneof=Broilers Layers"`
	Breed       models.ChickBreed    `json:"chick_breed" validate:"oneof=local exotic"`
	Quantity    int                  `json:"quantity" validate:"min=0"`
	UnitPrice   int64                `json:"price" validate:"min=0"`
	AgeDays     int                  `json:"chicks_period" validate:"min=0"`
	ManagerName string               `json:"manager_name" validate:"required,max=100"`
}

// StockDetail is a stock lot with its computed value.
type StockDetail struct {
	models.StockLot
	TotalValue int64 `json:"total_value"`
}

// CreateStock adds a stock lot. Manager only.
func (s *Service) CreateStock(ctx context.Context, actor models.Actor, in StockInput) (models.StockLot, error) {
	if !actor.IsManager() {
		return models.StockLot{}, fmt.Errorf("%w: only managers can add stock", models.ErrUnauthorized)
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.UnitPrice == 0 {
		in.UnitPrice = s.defaultPrice
	}
	if err := validate.Struct(in); err != nil {
		return models.StockLot{}, err
	}

	lot := models.StockLot{
		Name:        in.Name,
		Category:    in.Category,
		Breed:       in.Breed,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		AgeDays:     in.AgeDays,
		ManagerName: in.ManagerName,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateStock(ctx, &lot); err != nil {
		return models.StockLot{}, err
	}

	s.logger.Info("stock added", zap.String("stock_id", lot.ID.Hex()), zap.Int("quantity", lot.Quantity))
	return lot, nil
}

// GetStock returns a stock lot with its total value.
func (s *Service) GetStock(ctx context.Context, id primitive.ObjectID) (StockDetail, error) {
	lot, err := s.store.GetStock(ctx, id)
	if err != nil {
		return StockDetail{}, err
	}
	return StockDetail{StockLot: lot, TotalValue: lot.TotalValue()}, nil
}

// UpdateStock rewrites a stock lot. The creation timestamp is preserved. Manager only.
func (s *Service) UpdateStock(ctx context.Context, actor models.Actor, id primitive.ObjectID, in StockInput) (models.StockLot, error) {
	if !actor.IsManager() {
		return models.StockLot{}, fmt.Errorf("%w: only managers can edit stock", models.ErrUnauthorized)
	}

	current, err := s.store.GetStock(ctx, id)
	if err != nil {
		return models.StockLot{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.UnitPrice == 0 {
		in.UnitPrice = current.UnitPrice
	}
	if err := validate.Struct(in); err != nil {
		return models.StockLot{}, err
	}

	updated := current
	updated.Name = in.Name
	updated.Category = in.Category
	updated.Breed = in.Breed
	updated.Quantity = in.Quantity
	updated.UnitPrice = in.UnitPrice
	updated.AgeDays = in.AgeDays
	updated.ManagerName = in.ManagerName
	if err := s.store.UpdateStock(ctx, updated); err != nil {
		return models.StockLot{}, err
	}

	s.logger.Info("stock updated", zap.String("stock_id", id.Hex()))
	return updated, nil
}

// DeleteStock removes a stock lot. Manager only.
func (s *Service) DeleteStock(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !actor.IsManager() {
		return fmt.Errorf("%w: only managers can delete stock", models.ErrUnauthorized)
	}
	if err := s.store.DeleteStock(ctx, id); err != nil {
		return err
	}
	s.logger.Info("stock deleted", zap.String("stock_id", id.Hex()))
	return nil
}

// ListStocks pages through stock lots, newest first.
func (s *Service) ListStocks(ctx context.Context, filter models.ListFilter) (models.Page[models.StockLot], error) {
	return s.store.ListStocks(ctx, filter.Normalize())
}

// FeedInput carries the fields of a feed lot.
type FeedInput struct {
	Name            string  `json:"name_of_feeds" validate:"required,max=100"`
	Brand           string  `json:"brand_of_feeds" validate:"required,max=50"`
	Type            string  `json:"type_of_feeds" validate:"required,max=50"`
	Quantity        int     `json:"quantity_of_feeds" validate:"min=0"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	UnitCost        float64 `json:"unit_cost" validate:"gte=0"`
	SellingPrice    float64 `json:"selling_price" validate:"gte=0"`
	BuyingPrice     float64 `json:"buying_price" validate:"gte=0"`
	SupplierName    string  `json:"supplier_name" validate:"required,max=100"`
	SupplierContact string  `json:"supplier_contact" validate:"required,max=20"`
}

// CreateFeed adds a feed lot. Manager only.
func (s *Service) CreateFeed(ctx context.Context, actor models.Actor, in FeedInput) (models.FeedLot, error) {
	if !actor.IsManager() {
		return models.FeedLot{}, fmt.Errorf("%w: only managers can add feed stock", models.ErrUnauthorized)
	}
	if err := validate.Struct(in); err != nil {
		return models.FeedLot{}, err
	}

	lot := models.FeedLot{
		Name:            strings.TrimSpace(in.Name),
		Brand:           in.Brand,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		UnitCost:        in.UnitCost,
		SellingPrice:    in.SellingPrice,
		BuyingPrice:     in.BuyingPrice,
		SupplierName:    in.SupplierName,
		SupplierContact: in.SupplierContact,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.CreateFeed(ctx, &lot); err != nil {
		return models.FeedLot{}, err
	}

	s.logger.Info("feed stock added", zap.String("feed_id", lot.ID.Hex()), zap.Int("bags", lot.Quantity))
	return lot, nil
}

// ListFeeds pages through feed lots, newest first.
func (s *Service) ListFeeds(ctx context.Context, filter models.ListFilter) (models.Page[models.FeedLot], error) {
	return s.store.ListFeeds(ctx, filter.Normalize())
}
