// Package workflow implements the farmer approval gate, the chick request
// lifecycle and sale authorization.
package workflow

import (
	"time"

	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
)

// Store is the persistence surface the workflow needs.
type Store interface {
	repository.Farmers
	repository.Requests
	repository.Audit
}

// Service coordinates workflow transitions against the store.
type Service struct {
	store       Store
	phoneRegion string
	unitPrice   int64
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires a workflow service. phoneRegion is the default region used to
// normalize farmer phone numbers; unitPrice prices chick requests and falls back
// to models.DefaultChickPrice when not positive.
func NewService(store Store, phoneRegion string, unitPrice int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if unitPrice <= 0 {
		unitPrice = models.DefaultChickPrice
	}
	return &Service{
		store:       store,
		phoneRegion: phoneRegion,
		unitPrice:   unitPrice,
		logger:      logger,
		now:         time.Now,
	}
}
