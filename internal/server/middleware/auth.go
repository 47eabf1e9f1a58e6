// Package middleware holds gin middlewares for session authentication and role checks.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
)

const actorKey = "actor"

// TokenParser verifies a bearer token and returns the actor it identifies.
type TokenParser interface {
	Parse(raw string) (models.Actor, error)
}

// AccountLookup loads the stored account behind a token.
type AccountLookup interface {
	GetAccount(ctx context.Context, id primitive.ObjectID) (models.Account, error)
}

// Auth rejects requests without a valid Bearer token and stores the actor on the context.
// The actor comes from the stored account, so deleted accounts and role changes take
// effect before the token expires.
func Auth(tokens TokenParser, accounts AccountLookup, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing or malformed authorization header"})
			return
		}

		claimed, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			logger.Warn("rejected session token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}

		account, err := accounts.GetAccount(c.Request.Context(), claimed.ID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			logger.Warn("session token for missing account",
				zap.String("account_id", claimed.ID.Hex()),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "account no longer exists"})
			return
		case err != nil:
			logger.Error("failed to load session account", zap.String("account_id", claimed.ID.Hex()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
			return
		}

		c.Set(actorKey, account.Actor())
		c.Next()
	}
}

// RequireRole lets the request through only when the actor holds one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "role " + string(actor.Role) + " may not access this resource"})
	}
}

// ActorFrom returns the actor stored by Auth.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
