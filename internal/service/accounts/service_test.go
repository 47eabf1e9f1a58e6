package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository/memory"
)

func newTestService() *Service {
	svc := NewService(memory.New(), NewTokens("test-secret", time.Hour), nil)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func signupInput(username, role string) SignupInput {
	return SignupInput{
		Username: username,
		Password: "correct-horse",
		Email:    username + "@young4chicks.ug",
		Phone:    "+256772123456",
		Title:    "Mr",
		Role:     role,
	}
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	account, err := svc.Signup(ctx, signupInput("okello", "sales_agent"))
	require.NoError(t, err)
	require.Equal(t, models.RoleSalesAgent, account.Role)
	require.NotEqual(t, "correct-horse", account.PasswordHash)

	session, err := svc.Login(ctx, "okello", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, account.ID, session.Account.ID)

	actor, err := svc.tokens.Parse(session.Token)
	require.NoError(t, err)
	require.Equal(t, account.ID, actor.ID)
	require.True(t, actor.IsSalesAgent())
}

func TestSignupRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	cases := map[string]SignupInput{
		"short password": func() SignupInput { in := signupInput("a", "manager"); in.Password = "short"; return in }(),
		"bad email":      func() SignupInput { in := signupInput("b", "manager"); in.Email = "nope"; return in }(),
		"unknown role":   signupInput("c", "admin"),
		"no role":        signupInput("d", ""),
		"unassigned":     signupInput("e", "unassigned"),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Signup(ctx, in)
			require.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}

	_, err := svc.Signup(ctx, signupInput("nakato", "manager"))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, signupInput("Nakato", "sales_agent"))
	require.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Signup(ctx, signupInput("apio", "manager"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "apio", "wrong-password")
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Login(ctx, "ghost", "correct-horse")
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokens(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return issued }

	account := models.Account{ID: primitive.NewObjectID(), Username: "mgr", Role: models.RoleManager}
	raw, expiresAt, err := tokens.Issue(account)
	require.NoError(t, err)
	require.Equal(t, issued.Add(time.Hour), expiresAt)

	actor, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, account.Actor(), actor)

	_, err = NewTokens("other-secret", time.Hour).Parse(raw)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	tokens.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tokens.Parse(raw)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = tokens.Parse("not-a-token")
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	agent, err := svc.Signup(ctx, signupInput("wasswa", "sales_agent"))
	require.NoError(t, err)
	other, err := svc.Signup(ctx, signupInput("kato", "sales_agent"))
	require.NoError(t, err)

	err = svc.DeleteAccount(ctx, agent.ID, other.Actor())
	require.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, svc.DeleteAccount(ctx, agent.ID, agent.Actor()))
	_, err = svc.GetAccount(ctx, agent.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	err = svc.DeleteAccount(ctx, agent.ID, models.Actor{Role: models.RoleManager})
	require.ErrorIs(t, err, models.ErrNotFound)
}
