// Package accounts handles signup, login and account removal.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository"
	"github.com/young4chicks/brooder/pkg/validate"
)

// Service manages accounts and sessions.
type Service struct {
	store    repository.Accounts
	tokens   *Tokens
	logger   *zap.Logger
	hashCost int
	now      func() time.Time
}

// NewService wires an accounts service.
func NewService(store repository.Accounts, tokens *Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Title    string `json:"title" validate:"max=50"`
	Role     string `json:"role" validate:"required"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   models.Account `json:"account"`
}

// Signup creates an account holding exactly one role.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return models.Account{}, err
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return models.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Phone:        in.Phone,
		Title:        in.Title,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, &account); err != nil {
		return models.Account{}, err
	}

	s.logger.Info("account created", zap.String("account_id", account.ID.Hex()), zap.String("role", string(role)))
	return account, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	account, err := s.store.FindAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Session{}, fmt.Errorf("%w: invalid username or password", models.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// GetAccount returns the account with id.
func (s *Service) GetAccount(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// DeleteAccount removes an account. Callers may delete only their own account
// unless they are a manager. Requests it authorized stay sold with no authorizer.
func (s *Service) DeleteAccount(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	if actor.ID != id && !actor.IsManager() {
		return fmt.Errorf("%w: cannot delete another account", models.ErrUnauthorized)
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", zap.String("account_id", id.Hex()), zap.String("deleted_by", actor.Username))
	return nil
}
