package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/pkg/validate"
)

const farmerEntity = "farmer"

// RegisterFarmerInput carries the fields of a farmer registration.
type RegisterFarmerInput struct {
	Name            string                `json:"farmer_name" validate:"required,max=100"`
	Gender          models.Gender         `json:"farmer_gender" validate:"oneof=M F"`
	NIN             string                `json:"nin" validate:"len=14"`
	RecommenderName string                `json:"recommender_name" validate:"required,max=100"`
	RecommenderNIN  string                `json:"recommender_nin" validate:"required,max=20"`
	Phone           string                `json:"phone_number" validate:"required,max=20"`
	Age             int                   `json:"farmer_age" validate:"min=18,max=30"`
	Category        models.FarmerCategory `json:"type_of_farmer" validate:"oneof=starter returning"`
}

// RegisterFarmer records a new farmer awaiting approval. Only sales agents register farmers.
func (s *Service) RegisterFarmer(ctx context.Context, actor models.Actor, in RegisterFarmerInput) (models.Farmer, error) {
	if !actor.IsSalesAgent() {
		return models.Farmer{}, fmt.Errorf("%w: only sales agents can register farmers", models.ErrUnauthorized)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.NIN = strings.ToUpper(strings.TrimSpace(in.NIN))
	if err := validate.Struct(in); err != nil {
		return models.Farmer{}, err
	}

	phone, err := validate.Phone(in.Phone, s.phoneRegion)
	if err != nil {
		return models.Farmer{}, err
	}

	farmer := models.Farmer{
		Name:            in.Name,
		Gender:          in.Gender,
		NIN:             in.NIN,
		RecommenderName: in.RecommenderName,
		RecommenderNIN:  in.RecommenderNIN,
		Phone:           phone,
		Age:             in.Age,
		Category:        in.Category,
		Status:          models.FarmerPending,
		RegisteredAt:    s.now().UTC(),
	}
	if err := s.store.CreateFarmer(ctx, &farmer); err != nil {
		return models.Farmer{}, err
	}

	s.logger.Info("farmer registered",
		zap.String("farmer_id", farmer.ID.Hex()),
		zap.String("registered_by", actor.Username))
	return farmer, nil
}

// ApproveFarmer marks the farmer approved. Manager only; idempotent.
func (s *Service) ApproveFarmer(ctx context.Context, farmerID primitive.ObjectID, actor models.Actor) error {
	return s.setFarmerStatus(ctx, farmerID, actor, models.FarmerApproved, models.AuditApprove)
}

// RejectFarmer marks the farmer rejected. Manager only; idempotent.
func (s *Service) RejectFarmer(ctx context.Context, farmerID primitive.ObjectID, actor models.Actor) error {
	return s.setFarmerStatus(ctx, farmerID, actor, models.FarmerRejected, models.AuditReject)
}

// ResetFarmer returns the farmer to pending review. Manager only.
func (s *Service) ResetFarmer(ctx context.Context, farmerID primitive.ObjectID, actor models.Actor) error {
	return s.setFarmerStatus(ctx, farmerID, actor, models.FarmerPending, models.AuditReset)
}

func (s *Service) setFarmerStatus(ctx context.Context, farmerID primitive.ObjectID, actor models.Actor, status models.FarmerStatus, action models.AuditAction) error {
	if !actor.IsManager() {
		return fmt.Errorf("%w: only managers can change farmer approval", models.ErrUnauthorized)
	}

	previous, err := s.store.SetFarmerStatus(ctx, farmerID, status)
	if err != nil {
		return err
	}

	entry := models.AuditEntry{
		EntityType: farmerEntity,
		EntityID:   farmerID,
		Action:     action,
		ActorID:    actor.ID,
		ActorName:  actor.Username,
		From:       string(previous),
		To:         string(status),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.AppendAudit(ctx, &entry); err != nil {
		// Status is already written; the audit entry is best effort.
		s.logger.Error("failed to append farmer audit entry", zap.String("farmer_id", farmerID.Hex()), zap.Error(err))
	}

	s.logger.Info("farmer status changed",
		zap.String("farmer_id", farmerID.Hex()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("actor", actor.Username))
	return nil
}

// GetFarmer loads one farmer.
func (s *Service) GetFarmer(ctx context.Context, farmerID primitive.ObjectID) (models.Farmer, error) {
	return s.store.GetFarmer(ctx, farmerID)
}

// FarmerSummary returns the compact projection of one farmer.
func (s *Service) FarmerSummary(ctx context.Context, farmerID primitive.ObjectID) (models.FarmerSummary, error) {
	farmer, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return models.FarmerSummary{}, err
	}
	return farmer.Summary(), nil
}

// ListFarmers pages through farmers ordered by name.
func (s *Service) ListFarmers(ctx context.Context, filter models.ListFilter) (models.Page[models.Farmer], error) {
	return s.store.ListFarmers(ctx, filter.Normalize())
}

// FarmerRequests returns the farmer's requests, newest first.
func (s *Service) FarmerRequests(ctx context.Context, farmerID primitive.ObjectID) ([]models.ChickRequest, error) {
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	return s.store.ListFarmerRequests(ctx, farmerID)
}

// FarmerAudit returns who changed the farmer's approval status and when.
func (s *Service) FarmerAudit(ctx context.Context, farmerID primitive.ObjectID) ([]models.AuditEntry, error) {
	return s.store.ListAudit(ctx, farmerID)
}

// DeleteFarmer removes the farmer and all of its requests. Manager only.
func (s *Service) DeleteFarmer(ctx context.Context, farmerID primitive.ObjectID, actor models.Actor) error {
	if !actor.IsManager() {
		return fmt.Errorf("%w: only managers can delete farmers", models.ErrUnauthorized)
	}
	if err := s.store.DeleteFarmer(ctx, farmerID); err != nil {
		return err
	}
	s.logger.Info("farmer deleted", zap.String("farmer_id", farmerID.Hex()), zap.String("actor", actor.Username))
	return nil
}
