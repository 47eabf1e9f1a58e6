package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/service/accounts"
)

// AuthHandler exposes signup, login and account removal.
type AuthHandler struct {
	svc    *accounts.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *accounts.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates an account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in accounts.SignupInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	account, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginRequest
	if err := bindJSON(c, &in); err != nil {
		writeError(c, h.logger, err)
		return
	}

	session, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			h.logger.Warn("login failed", zap.String("username", in.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteAccount removes an account.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
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

	if err := h.svc.DeleteAccount(c.Request.Context(), id, actor); err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeSuccess(c)
}
