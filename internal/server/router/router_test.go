package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/young4chicks/brooder/internal/domain/models"
	"github.com/young4chicks/brooder/internal/repository/memory"
	"github.com/young4chicks/brooder/internal/server/handlers"
	"github.com/young4chicks/brooder/internal/service/accounts"
	"github.com/young4chicks/brooder/internal/service/inventory"
	"github.com/young4chicks/brooder/internal/service/reporting"
	"github.com/young4chicks/brooder/internal/service/workflow"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	tokens := accounts.NewTokens("test-secret", time.Hour)
	accountSvc := accounts.NewService(store, tokens, nil)

	h := Handlers{
		Auth:      handlers.NewAuthHandler(accountSvc, nil),
		Farmers:   handlers.NewFarmerHandler(workflow.NewService(store, "UG", 0, nil), nil),
		Requests:  handlers.NewRequestHandler(workflow.NewService(store, "UG", 0, nil), nil),
		Inventory: handlers.NewInventoryHandler(inventory.NewService(store, 0, nil), nil),
		Dashboard: handlers.NewDashboardHandler(reporting.NewService(store, 0, time.UTC, nil), nil),
	}
	engine := New(h, tokens, accountSvc, nil)
	gin.SetMode(gin.TestMode)
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username, role string) string {
	s.t.Helper()
	token, _ := s.signIn(username, role)
	return token
}

func (s *testServer) signIn(username, role string) (string, models.Account) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"username": username,
		"password": "correct-horse",
		"email":    username + "@young4chicks.ug",
		"phone":    "+256772123456",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": "correct-horse"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var session struct {
		Token   string         `json:"token"`
		Account models.Account `json:"account"`
	}
	decode(s.t, w, &session)
	return session.Token, session.Account
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	decode(t, w, &body)
	require.Equal(t, false, body["success"])
	return body
}

func TestChickRequestFlow(t *testing.T) {
	s := newTestServer(t)
	manager := s.login("nakato", "manager")
	agent := s.login("okello", "sales_agent")

	w := s.do(http.MethodPost, "/farmers", agent, map[string]any{
		"farmer_name":      "Amina Nansubuga",
		"farmer_gender":    "F",
		"nin":              "CM12345678901A",
		"recommender_name": "Sarah",
		"recommender_nin":  "CM00000000000B",
		"phone_number":     "0772 123456",
		"farmer_age":       24,
		"type_of_farmer":   "starter",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var farmer models.Farmer
	decode(t, w, &farmer)
	require.Equal(t, "+256772123456", farmer.Phone)

	newRequest := map[string]any{
		"farmer_id":     farmer.ID.Hex(),
		"chicks_type":   "Broilers",
		"chicks_breed":  "local",
		"quantity":      50,
		"feeds_needed":  "Y",
		"chicks_period": 1,
	}
	w = s.do(http.MethodPost, "/requests", agent, newRequest)
	require.Equal(t, http.StatusConflict, w.Code)
	errorBody(t, w)

	w = s.do(http.MethodPost, "/farmers/"+farmer.ID.Hex()+"/approve", agent, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/farmers/"+farmer.ID.Hex()+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/requests", agent, newRequest)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var req models.ChickRequest
	decode(t, w, &req)
	require.Equal(t, models.RequestPending, req.Status)
	base := "/requests/" + req.ID.Hex()

	w = s.do(http.MethodPost, base+"/status", manager, map[string]string{"status": "sold"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base+"/authorize-sale", agent, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, base+"/status", manager, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, base+"/authorize-sale", manager, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, base+"/authorize-sale", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, base+"/authorize-sale", agent, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, base+"/deliver", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, base, agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &req)
	require.Equal(t, models.RequestSold, req.Status)
	require.True(t, req.SalesAuthorized)
	require.Equal(t, models.Yes, req.Delivered)
	var priced struct {
		UnitPrice int64 `json:"price_per_chick"`
		TotalCost int64 `json:"total_cost"`
	}
	decode(t, w, &priced)
	require.Equal(t, models.DefaultChickPrice, priced.UnitPrice)
	require.Equal(t, int64(50)*models.DefaultChickPrice, priced.TotalCost)

	w = s.do(http.MethodGet, "/reports/sales-agents", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.SalesReport
	decode(t, w, &report)
	require.Len(t, report.Agents, 1)
	require.Equal(t, "okello", report.Agents[0].AgentName)
	require.Equal(t, int64(50)*models.DefaultChickPrice, report.Agents[0].Revenue)

	w = s.do(http.MethodGet, "/reports/sales-agents", agent, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/dashboard/sales", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sales models.SalesDashboard
	decode(t, w, &sales)
	require.Equal(t, int64(1), sales.MySales)
}

func TestDeletedAccountTokenRejected(t *testing.T) {
	s := newTestServer(t)
	manager := s.login("nakato", "manager")
	agent, account := s.signIn("okello", "sales_agent")

	w := s.do(http.MethodPost, "/farmers", agent, map[string]any{
		"farmer_name":      "Amina Nansubuga",
		"farmer_gender":    "F",
		"nin":              "CM12345678901A",
		"recommender_name": "Sarah",
		"recommender_nin":  "CM00000000000B",
		"phone_number":     "0772 123456",
		"farmer_age":       24,
		"type_of_farmer":   "starter",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var farmer models.Farmer
	decode(t, w, &farmer)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/farmers/"+farmer.ID.Hex()+"/approve", manager, nil).Code)

	w = s.do(http.MethodPost, "/requests", agent, map[string]any{
		"farmer_id":     farmer.ID.Hex(),
		"chicks_type":   "Layers",
		"chicks_breed":  "exotic",
		"quantity":      20,
		"feeds_needed":  "N",
		"chicks_period": 0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var req models.ChickRequest
	decode(t, w, &req)
	base := "/requests/" + req.ID.Hex()
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, base+"/status", manager, map[string]string{"status": "approved"}).Code)

	w = s.do(http.MethodDelete, "/accounts/"+account.ID.Hex(), agent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, base+"/authorize-sale", agent, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	errorBody(t, w)

	w = s.do(http.MethodGet, base, manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &req)
	require.Equal(t, models.RequestApproved, req.Status)
	require.False(t, req.SalesAuthorized)
	require.Nil(t, req.AuthorizedBy)
}

func TestDashboardStatsShape(t *testing.T) {
	s := newTestServer(t)
	manager := s.login("nakato", "manager")

	w := s.do(http.MethodPost, "/stock", manager, map[string]any{
		"stock_name":    "Batch 1",
		"chick_type":    "Layers",
		"chick_breed":   "exotic",
		"quantity":      200,
		"chicks_period": 2,
		"manager_name":  "Nakato",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/dashboard-stats", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int64
	decode(t, w, &stats)
	require.Equal(t, map[string]int64{
		"total_stock":       200,
		"total_feedstock":   0,
		"total_farmers":     0,
		"pending_requests":  0,
		"approved_requests": 0,
		"rejected_requests": 0,
	}, stats)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	manager := s.login("nakato", "manager")

	w := s.do(http.MethodGet, "/api/dashboard-stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/requests/not-an-id", manager, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	errorBody(t, w)

	w = s.do(http.MethodGet, "/farmers?page=abc", manager, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/reports/sales-agents?start=yesterday", manager, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "nakato", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
