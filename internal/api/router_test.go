package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"fin-guardian/internal/api/handlers"
	"fin-guardian/internal/models"
	"fin-guardian/internal/repository/memory"
	"fin-guardian/internal/service"
	"fin-guardian/pkg/auth"
	"fin-guardian/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *memory.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zap.NewNop()
	db := memory.New()
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)

	notifications := service.NewNotificationService(20, log)
	budgets := service.NewBudgetService(db.Budgets(), db.Categories(), db.Transactions(), log)
	transactions := service.NewTransactionService(db, db.Users(), db.Categories(), db.Transactions(), budgets, notifications, log)
	savings := service.NewSavingsService(db, db.Users(), db.SavingsGoals(), db.LifetimeSavings(), db.Transactions(), db.Categories(), notifications, log)

	app := SetupRouter(config.ServerConfig{}, Handlers{
		Auth:          handlers.NewAuthHandler(service.NewAuthService(db.Users(), jwtManager, log), log),
		Transactions:  handlers.NewTransactionHandler(transactions, log),
		Budgets:       handlers.NewBudgetHandler(budgets, log),
		Savings:       handlers.NewSavingsHandler(savings, service.NewLifetimeService(db.LifetimeSavings(), log), log),
		Recurring:     handlers.NewRecurringHandler(service.NewRecurringService(db, db.Recurring(), db.Transactions(), db.Categories(), log), log),
		Reports:       handlers.NewReportHandler(service.NewReportService(db.Transactions(), nil, log), service.NewCategoryService(db.Categories(), db.Transactions(), log), log),
		Notifications: handlers.NewNotificationHandler(notifications, log),
	}, jwtManager, log)

	return &testServer{t: t, app: app, db: db}
}

// do sends body as JSON when it is not nil and decodes a JSON object response.
func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}, *http.Response) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded interface{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) && len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	// list endpoints answer with arrays, which callers only check by status
	out, _ := decoded.(map[string]interface{})
	return resp.StatusCode, out, resp
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	code, body, _ := s.do(http.MethodPost, "/user/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if code != fiber.StatusCreated {
		s.t.Fatalf("register %s: status %d %v", username, code, body)
	}
	return body["access_token"].(string)
}

func (s *testServer) categoryID(name string, typ models.EntryType) int64 {
	s.t.Helper()
	c, err := s.db.Categories().GetByName(s.t.Context(), name, typ)
	if err != nil {
		s.t.Fatalf("category %s: %v", name, err)
	}
	return c.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body, _ := s.do(http.MethodGet, "/health", "", nil)
	if code != fiber.StatusOK || body["status"] != "OK" {
		t.Errorf("health = %d %v", code, body)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("carol")

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     interface{}
		wantCode int
	}{
		{"duplicate register", http.MethodPost, "/user/auth/register", "", map[string]string{"username": "carol", "email": "x@example.com", "password": "secret123"}, fiber.StatusConflict},
		{"short password", http.MethodPost, "/user/auth/register", "", map[string]string{"username": "dave", "email": "dave@example.com", "password": "123"}, fiber.StatusBadRequest},
		{"login", http.MethodPost, "/user/auth/login", "", map[string]string{"username": "carol", "password": "secret123"}, fiber.StatusOK},
		{"wrong password", http.MethodPost, "/user/auth/login", "", map[string]string{"username": "carol", "password": "nope"}, fiber.StatusUnauthorized},
		{"me", http.MethodGet, "/api/v1/users/me", token, nil, fiber.StatusOK},
		{"missing token", http.MethodGet, "/api/v1/transactions", "", nil, fiber.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/transactions", "not-a-jwt", nil, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := s.do(tt.method, tt.path, tt.token, tt.body)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d (%v)", code, tt.wantCode, body)
			}
		})
	}
}

func TestTransactionsAndBudgetAlert(t *testing.T) {
	s := newTestServer(t)
	token := s.register("carol")
	food := s.categoryID("Food", models.EntryTypeExpense)

	code, body, _ := s.do(http.MethodPost, "/api/v1/budgets", token, map[string]interface{}{
		"categoryId": food, "limit": 100, "period": "monthly",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("create budget: %d %v", code, body)
	}

	code, body, _ = s.do(http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"amount": 130, "type": "expense", "categoryId": food, "description": "groceries",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("create transaction: %d %v", code, body)
	}
	alert, ok := body["alert"].(map[string]interface{})
	if !ok || alert["alert"] != true || alert["overspent"] != float64(30) {
		t.Errorf("alert = %v", body["alert"])
	}

	code, body, _ = s.do(http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"amount": 10, "type": "gift", "categoryId": food,
	})
	if code != fiber.StatusBadRequest {
		t.Errorf("invalid type: %d %v", code, body)
	}

	code, body, _ = s.do(http.MethodGet, "/api/v1/transactions?page=1&limit=10", token, nil)
	if code != fiber.StatusOK || body["total"] != float64(1) {
		t.Errorf("list: %d %v", code, body)
	}

	code, body, _ = s.do(http.MethodGet, "/api/v1/notifications", token, nil)
	if code != fiber.StatusOK {
		t.Errorf("notifications: %d %v", code, body)
	}
	code, _, _ = s.do(http.MethodDelete, "/api/v1/notifications", token, nil)
	if code != fiber.StatusNoContent {
		t.Errorf("clear notifications: %d", code)
	}

	code, body, _ = s.do(http.MethodGet, "/api/v1/transactions/not-a-uuid", token, nil)
	if code != fiber.StatusBadRequest || body["error"] != "Invalid id" {
		t.Errorf("invalid id: %d %v", code, body)
	}
}

func TestSavingsGoalEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.register("carol")
	salary := s.categoryID("Salary", models.EntryTypeIncome)

	if code, body, _ := s.do(http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"amount": 1000, "type": "income", "categoryId": salary,
	}); code != fiber.StatusCreated {
		t.Fatalf("income: %d %v", code, body)
	}

	code, body, _ := s.do(http.MethodPost, "/api/v1/savings-goals", token, map[string]interface{}{
		"name":          "Bike",
		"target_amount": 600,
		"deadline":      time.Now().AddDate(0, 2, 0).UTC().Format(time.RFC3339),
		"frequency":     "weekly",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("create goal: %d %v", code, body)
	}
	goalPath := "/api/v1/savings-goals/" + body["id"].(string)

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		wantCode int
		wantKey  string
		wantVal  interface{}
	}{
		{"deposit above balance", http.MethodPost, goalPath + "/deposit", map[string]int{"amount": 2000}, fiber.StatusBadRequest, "availableAmount", float64(1000)},
		{"deposit", http.MethodPost, goalPath + "/deposit", map[string]int{"amount": 400}, fiber.StatusOK, "current_amount", float64(400)},
		{"deposit past target", http.MethodPatch, goalPath + "/deposit", map[string]int{"amount": 300}, fiber.StatusBadRequest, "maxAmount", float64(200)},
		{"withdraw too much", http.MethodPatch, goalPath + "/withdraw", map[string]int{"amount": 500}, fiber.StatusConflict, "", nil},
		{"mark used before completion", http.MethodPatch, goalPath + "/mark-used", nil, fiber.StatusBadRequest, "", nil},
		{"stats is not an id", http.MethodGet, "/api/v1/savings-goals/stats", nil, fiber.StatusOK, "totalGoals", float64(1)},
		{"recommendation", http.MethodGet, goalPath + "/recommendation", nil, fiber.StatusOK, "frequency", "weekly"},
		{"refund", http.MethodDelete, goalPath + "/delete-and-refund", nil, fiber.StatusOK, "refundedAmount", float64(400)},
		{"gone", http.MethodGet, goalPath, nil, fiber.StatusNotFound, "", nil},
		{"lifetime", http.MethodGet, "/api/v1/lifetime-savings", nil, fiber.StatusOK, "goalsCompleted", float64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := s.do(tt.method, tt.path, token, tt.body)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%v)", code, tt.wantCode, body)
			}
			if tt.wantKey != "" && body[tt.wantKey] != tt.wantVal {
				t.Errorf("%s = %v, want %v", tt.wantKey, body[tt.wantKey], tt.wantVal)
			}
		})
	}
}

func TestReportsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.register("carol")
	food := s.categoryID("Food", models.EntryTypeExpense)

	if code, body, _ := s.do(http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"amount": 12.5, "type": "expense", "categoryId": food, "description": "lunch",
	}); code != fiber.StatusCreated {
		t.Fatalf("expense: %d %v", code, body)
	}

	today := time.Now().Format("2006-01-02")
	for _, path := range []string{
		"/api/v1/dashboard/summary?period=week",
		"/api/v1/reports/trend?start=" + today + "&end=" + today,
		"/api/v1/reports/category",
		"/api/v1/reports/analysis",
		"/api/v1/categories",
		"/api/v1/categories/stats",
		"/api/v1/categories/type/expense",
	} {
		if code, body, _ := s.do(http.MethodGet, path, token, nil); code != fiber.StatusOK {
			t.Errorf("GET %s: %d %v", path, code, body)
		}
	}

	if code, _, _ := s.do(http.MethodGet, "/api/v1/categories/type/transfer", token, nil); code != fiber.StatusBadRequest {
		t.Errorf("unknown category type: %d", code)
	}
	if code, _, _ := s.do(http.MethodGet, "/api/v1/reports/trend?start=2024-03-10&end=2024-03-01", token, nil); code != fiber.StatusBadRequest {
		t.Errorf("reversed range: %d", code)
	}

	code, _, resp := s.do(http.MethodGet, "/api/v1/export/csv", token, nil)
	if code != fiber.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Errorf("csv export: %d %s", code, resp.Header.Get("Content-Type"))
	}
	if cl, _ := strconv.Atoi(resp.Header.Get("Content-Length")); cl == 0 {
		t.Error("csv export is empty")
	}
}
