package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/young4chicks/brooder/internal/domain/models"
)

func seedRequest(t *testing.T, s *Store, status models.RequestStatus) models.ChickRequest {
	t.Helper()
	ctx := context.Background()

	farmer := &models.Farmer{Name: "Amina", NIN: primitive.NewObjectID().Hex()[10:], Status: models.FarmerApproved}
	require.NoError(t, s.CreateFarmer(ctx, farmer))

	req := &models.ChickRequest{FarmerID: farmer.ID, FarmerName: farmer.Name, Quantity: 10, Status: status, CreatedAt: time.Now()}
	require.NoError(t, s.CreateRequest(ctx, req))
	return *req
}

func TestMarkSoldIsCompareAndSet(t *testing.T) {
	s := New()
	req := seedRequest(t, s, models.RequestApproved)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.MarkSold(context.Background(), req.ID, models.Sale{AgentID: primitive.NewObjectID(), At: time.Now()})
			if err == nil {
				wins.Add(1)
				return
			}
			if !errors.Is(err, models.ErrInvalidState) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())

	stored, err := s.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestSold, stored.Status)
	require.True(t, stored.SalesAuthorized)
	require.NotNil(t, stored.AuthorizedBy)
	require.NotNil(t, stored.AuthorizedAt)
}

func TestTransitionRequestLeavesRecordOnMismatch(t *testing.T) {
	s := New()
	req := seedRequest(t, s, models.RequestSold)

	_, err := s.TransitionRequest(context.Background(), req.ID, models.RequestPending, models.RequestApproved)
	require.ErrorIs(t, err, models.ErrInvalidState)

	stored, err := s.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestSold, stored.Status)

	_, err = s.TransitionRequest(context.Background(), primitive.NewObjectID(), models.RequestPending, models.RequestApproved)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestTransitionRequestRejectsIllegalSteps(t *testing.T) {
	s := New()
	ctx := context.Background()
	req := seedRequest(t, s, models.RequestPending)

	for _, to := range []models.RequestStatus{models.RequestSold, models.RequestPending} {
		_, err := s.TransitionRequest(ctx, req.ID, models.RequestPending, to)
		require.ErrorIs(t, err, models.ErrInvalidArgument, "to %s", to)
	}
	_, err := s.TransitionRequest(ctx, req.ID, models.RequestRejected, models.RequestApproved)
	require.ErrorIs(t, err, models.ErrInvalidArgument)

	stored, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestPending, stored.Status)

	_, err = s.MarkSold(ctx, req.ID, models.Sale{AgentID: primitive.NewObjectID(), At: time.Now()})
	require.ErrorIs(t, err, models.ErrInvalidState)
}

func TestDeleteFarmerCascadesRequests(t *testing.T) {
	s := New()
	ctx := context.Background()
	req := seedRequest(t, s, models.RequestPending)

	require.NoError(t, s.DeleteFarmer(ctx, req.FarmerID))

	_, err := s.GetRequest(ctx, req.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteAccountClearsAuthorizer(t *testing.T) {
	s := New()
	ctx := context.Background()

	agent := &models.Account{Username: "sam", Role: models.RoleSalesAgent}
	require.NoError(t, s.CreateAccount(ctx, agent))

	req := seedRequest(t, s, models.RequestApproved)
	_, err := s.MarkSold(ctx, req.ID, models.Sale{AgentID: agent.ID, At: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, agent.ID))

	stored, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Nil(t, stored.AuthorizedBy)
	require.Equal(t, models.RequestSold, stored.Status)
}

func TestUniqueConstraints(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateFarmer(ctx, &models.Farmer{NIN: "CM123456789012"}))
	err := s.CreateFarmer(ctx, &models.Farmer{NIN: "CM123456789012"})
	require.ErrorIs(t, err, models.ErrInvalidArgument)

	require.NoError(t, s.CreateAccount(ctx, &models.Account{Username: "Grace"}))
	err = s.CreateAccount(ctx, &models.Account{Username: "grace"})
	require.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestListStocksSearchAndPaging(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, name := range []string{"Batch A", "Batch B", "Layers lot"} {
		lot := &models.StockLot{Name: name, Category: models.CategoryBroilers, Quantity: 10, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.CreateStock(ctx, lot))
	}

	page, err := s.ListStocks(ctx, models.ListFilter{Search: "batch"})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, "Batch B", page.Items[0].Name)

	page, err = s.ListStocks(ctx, models.ListFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Batch A", page.Items[0].Name)

	total, err := s.SumStockQuantity(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(30), total)
}
