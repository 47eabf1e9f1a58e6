package workflow

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/pkg/validate"
)

// CreateRequestInput carries the fields of a new chick request.
type CreateRequestInput struct {
	FarmerID    primitive.ObjectID   `json:"farmer_id"`
	Category    models.ChickCategory `json:"chicks_type" validate:"oneof=Broilers Layers"`
	Breed       models.ChickBreed    `json:"chicks_breed" validate:"oneof=local exotic"`
	Quantity    int                  `json:"quantity" validate:"min=1"`
	FeedsNeeded models.YesNo         `json:"feeds_needed" validate:"oneof=Y N"`
	AgeDays     int                  `json:"chicks_period" validate:"min=0"`
}

// CreateRequest opens a pending request for an approved farmer.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (models.ChickRequest, error) {
	if err := validate.Struct(in); err != nil {
		return models.ChickRequest{}, err
	}

	farmer, err := s.store.GetFarmer(ctx, in.FarmerID)
	if err != nil {
		return models.ChickRequest{}, err
	}
	if farmer.Status != models.FarmerApproved {
		return models.ChickRequest{}, fmt.Errorf("%w: farmer %q is not approved", models.ErrInvalidState, farmer.Name)
	}

	req := models.ChickRequest{
		FarmerID:        farmer.ID,
		FarmerName:      farmer.Name,
		Category:        in.Category,
		Breed:           in.Breed,
		Quantity:        in.Quantity,
		AgeDays:         in.AgeDays,
		FeedsNeeded:     in.FeedsNeeded,
		Status:          models.RequestPending,
		Delivered:       models.No,
		SalesAuthorized: false,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.store.CreateRequest(ctx, &req); err != nil {
		return models.ChickRequest{}, err
	}

	s.logger.Info("chick request created",
		zap.String("request_id", req.ID.Hex()),
		zap.String("farmer_id", farmer.ID.Hex()),
		zap.Int("quantity", req.Quantity))
	return req, nil
}

// UpdateRequestStatus approves or rejects a pending request.
func (s *Service) UpdateRequestStatus(ctx context.Context, requestID primitive.ObjectID, newStatus string) (models.ChickRequest, error) {
	next := models.RequestStatus(newStatus)
	if !models.RequestPending.CanTransition(next) {
		return models.ChickRequest{}, fmt.Errorf("%w: invalid status %q", models.ErrInvalidArgument, newStatus)
	}

	req, err := s.store.TransitionRequest(ctx, requestID, models.RequestPending, next)
	if err != nil {
		return models.ChickRequest{}, err
	}

	s.logger.Info("chick request status updated",
		zap.String("request_id", requestID.Hex()),
		zap.String("status", string(next)))
	return req, nil
}

// AuthorizeSale finalizes an approved request as sold. Sales agent only.
func (s *Service) AuthorizeSale(ctx context.Context, requestID primitive.ObjectID, actor models.Actor) (models.ChickRequest, error) {
	if !actor.IsSalesAgent() {
		return models.ChickRequest{}, fmt.Errorf("%w: only sales agents can authorize sales", models.ErrUnauthorized)
	}

	sale := models.Sale{AgentID: actor.ID, At: s.now().UTC()}
	req, err := s.store.MarkSold(ctx, requestID, sale)
	if err != nil {
		return models.ChickRequest{}, err
	}

	s.logger.Info("sale authorized",
		zap.String("request_id", requestID.Hex()),
		zap.String("agent", actor.Username),
		zap.Int("quantity", req.Quantity))
	return req, nil
}

// MarkDelivered records that the chicks of a sold request were handed over. Manager only.
func (s *Service) MarkDelivered(ctx context.Context, requestID primitive.ObjectID, actor models.Actor) (models.ChickRequest, error) {
	if !actor.IsManager() {
		return models.ChickRequest{}, fmt.Errorf("%w: only managers can mark deliveries", models.ErrUnauthorized)
	}
	return s.store.MarkDelivered(ctx, requestID)
}

// RequestDetail is a chick request priced at the configured unit price.
type RequestDetail struct {
	models.ChickRequest
	UnitPrice int64 `json:"price_per_chick"`
	TotalCost int64 `json:"total_cost"`
}

// GetRequest loads one request with its cost.
func (s *Service) GetRequest(ctx context.Context, requestID primitive.ObjectID) (RequestDetail, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return RequestDetail{}, err
	}
	return RequestDetail{
		ChickRequest: req,
		UnitPrice:    s.unitPrice,
		TotalCost:    int64(req.Quantity) * s.unitPrice,
	}, nil
}

// ListRequests pages through requests, newest first.
func (s *Service) ListRequests(ctx context.Context, filter models.ListFilter) (models.Page[models.ChickRequest], error) {
	if filter.Status != "" {
		switch models.RequestStatus(filter.Status) {
		case models.RequestPending, models.RequestApproved, models.RequestRejected, models.RequestSold:
		default:
			return models.Page[models.ChickRequest]{}, fmt.Errorf("%w: unknown status filter %q", models.ErrInvalidArgument, filter.Status)
		}
	}
	return s.store.ListRequests(ctx, filter.Normalize())
}
