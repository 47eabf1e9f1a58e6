package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/service/workflow"
)

// FarmerHandler exposes farmer registration and the approval gate.
type FarmerHandler struct {
	svc    *workflow.Service
	logger *zap.Logger
}

// NewFarmerHandler constructs the HTTP handler adapter.
func NewFarmerHandler(svc *workflow.Service, logger *zap.Logger) *FarmerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmerHandler{svc: svc, logger: logger}
}

type farmerDetail struct {
	Farmer   models.Farmer         `json:"farmer"`
	Requests []models.ChickRequest `json:"requests"`
}

// Register records a new farmer.
func (h *FarmerHandler) Register(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var in workflow.RegisterFarmerInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	farmer, err := h.svc.RegisterFarmer(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

// List pages through farmers.
func (h *FarmerHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListFarmers(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns a farmer with its requests.
func (h *FarmerHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()

	farmer, err := h.svc.GetFarmer(ctx, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	requests, err := h.svc.FarmerRequests(ctx, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farmerDetail{Farmer: farmer, Requests: requests})
}

// Summary returns the short farmer projection used by request forms.
func (h *FarmerHandler) Summary(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	summary, err := h.svc.FarmerSummary(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Audit lists the approval history of a farmer.
func (h *FarmerHandler) Audit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	entries, err := h.svc.FarmerAudit(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Delete removes a farmer and its requests.
func (h *FarmerHandler) Delete(c *gin.Context) {
	h.act(c, h.svc.DeleteFarmer)
}

// Approve marks a farmer approved.
func (h *FarmerHandler) Approve(c *gin.Context) {
	h.act(c, h.svc.ApproveFarmer)
}

// Reject marks a farmer rejected.
func (h *FarmerHandler) Reject(c *gin.Context) {
	h.act(c, h.svc.RejectFarmer)
}

// Reset returns a farmer to pending review.
func (h *FarmerHandler) Reset(c *gin.Context) {
	h.act(c, h.svc.ResetFarmer)
}

func (h *FarmerHandler) act(c *gin.Context, fn func(context.Context, primitive.ObjectID, models.Actor) error) {
	actor, err := currentActor(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := fn(c.Request.Context(), id, actor); err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeSuccess(c)
}
