package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/server/middleware"
)

// statusFor maps the workflow error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"success": false, "error": ...}. Internal errors are
// logged and hidden from the caller.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message = "internal error"
	} else {
		logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

func writeSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrInvalidArgument, err)
	}
	return nil
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		// An id that cannot exist is reported the same way as a missing record.
		return primitive.NilObjectID, fmt.Errorf("%w: %s %q", models.ErrNotFound, name, c.Param(name))
	}
	return id, nil
}

func currentActor(c *gin.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return models.Actor{}, fmt.Errorf("%w: not authenticated", models.ErrUnauthorized)
	}
	return actor, nil
}

func listFilter(c *gin.Context) (models.ListFilter, error) {
	filter := models.ListFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	for key, dst := range map[string]*int{"page": &filter.Page, "page_size": &filter.PageSize} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return models.ListFilter{}, fmt.Errorf("%w: %s must be a non-negative integer", models.ErrInvalidArgument, key)
		}
		*dst = n
	}
	return filter, nil
}
