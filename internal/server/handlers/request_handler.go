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

// RequestHandler exposes the chick request lifecycle.
type RequestHandler struct {
	svc    *workflow.Service
	logger *zap.Logger
}

// NewRequestHandler constructs the HTTP handler adapter.
func NewRequestHandler(svc *workflow.Service, logger *zap.Logger) *RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestHandler{svc: svc, logger: logger}
}

type statusRequest struct {
	Status string `json:"status"`
}

// Create opens a request for an approved farmer.
func (h *RequestHandler) Create(c *gin.Context) {
	var in workflow.CreateRequestInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	req, err := h.svc.CreateRequest(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// List pages through requests.
func (h *RequestHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListRequests(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns one request.
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	req, err := h.svc.GetRequest(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// UpdateStatus approves or rejects a pending request.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var body statusRequest
	if err := bindJSON(c, &body); err != nil {
		writeError(c, h.logger, err)
		return
	}

	if _, err := h.svc.UpdateRequestStatus(c.Request.Context(), id, body.Status); err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeSuccess(c)
}

// AuthorizeSale finalizes the sale of an approved request.
func (h *RequestHandler) AuthorizeSale(c *gin.Context) {
	h.act(c, h.svc.AuthorizeSale)
}

// Deliver flags a sold request as delivered.
func (h *RequestHandler) Deliver(c *gin.Context) {
	h.act(c, h.svc.MarkDelivered)
}

func (h *RequestHandler) act(c *gin.Context, fn func(context.Context, primitive.ObjectID, models.Actor) (models.ChickRequest, error)) {
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

	if _, err := fn(c.Request.Context(), id, actor); err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeSuccess(c)
}
