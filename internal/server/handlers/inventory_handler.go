package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/service/inventory"
)

// InventoryHandler exposes stock and feed lots.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

func (h *InventoryHandler) CreateStock(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var in inventory.StockInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	lot, err := h.svc.CreateStock(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

func (h *InventoryHandler) ListStocks(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListStocks(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *InventoryHandler) GetStock(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	detail, err := h.svc.GetStock(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
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
	var in inventory.StockInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	lot, err := h.svc.UpdateStock(c.Request.Context(), actor, id, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (h *InventoryHandler) DeleteStock(c *gin.Context) {
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

	if err := h.svc.DeleteStock(c.Request.Context(), actor, id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeSuccess(c)
}

func (h *InventoryHandler) CreateFeed(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var in inventory.FeedInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	lot, err := h.svc.CreateFeed(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

func (h *InventoryHandler) ListFeeds(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	page, err := h.svc.ListFeeds(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
