package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lottohub/draws-backend/internal/config"
	"github.com/lottohub/draws-backend/internal/handlers"
	"github.com/lottohub/draws-backend/internal/models"
	"github.com/lottohub/draws-backend/internal/repositories/memory"
	"github.com/lottohub/draws-backend/internal/services"
)

type testEnv struct {
	router          *gin.Engine
	drawService     services.DrawService
	categoryService services.CategoryService
	authService     services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600

	drawRepo := memory.NewDrawRepository()
	categoryRepo := memory.NewCategoryRepository()
	userRepo := memory.NewAdminUserRepository()

	drawService := services.NewDrawService(drawRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo, drawRepo)
	authService := services.NewAuthService(userRepo, cfg)

	router := SetupRouter(cfg, HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		DrawHandler:      handlers.NewDrawHandler(drawService, categoryService),
		AdminDrawHandler: handlers.NewAdminDrawHandler(drawService),
		CategoryHandler:  handlers.NewCategoryHandler(categoryService),
	})

	return &testEnv{
		router:          router,
		drawService:     drawService,
		categoryService: categoryService,
		authService:     authService,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	if _, err := e.authService.CreateAdmin(ctx, "Admin", "admin@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	rec := e.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return body.Token
}

func (e *testEnv) seedCategory(t *testing.T, name string) *models.DrawCategory {
	t.Helper()
	category, err := e.categoryService.CreateCategory(context.Background(), services.CategoryInput{Name: name})
	if err != nil {
		t.Fatalf("Failed to seed category %s: %v", name, err)
	}
	return category
}

func (e *testEnv) seedDraw(t *testing.T, categoryID, number, status, date string) *models.Draw {
	t.Helper()
	input := services.DrawInput{
		DrawCategoryID: categoryID,
		DrawNumber:     number,
		DrawDate:       date,
		Status:         status,
	}
	if status != "pending" {
		input.WinningNumbers = []int{3, 11, 17, 24, 38, 45}
	}
	draw, err := e.drawService.CreateDraw(context.Background(), input)
	if err != nil {
		t.Fatalf("Failed to seed draw %s: %v", number, err)
	}
	return draw
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t)
	markSix := env.seedCategory(t, "Mark Six")
	lucky := env.seedCategory(t, "Lucky Numbers")
	completed := env.seedDraw(t, markSix.ID.Hex(), "0001/25", "completed", "2025-01-15 21:30:00")
	env.seedDraw(t, markSix.ID.Hex(), "0002/25", "live", "2025-01-18 21:30:00")
	env.seedDraw(t, lucky.ID.Hex(), "L-0001/25", "completed", "2025-01-16 20:00:00")

	t.Run("health", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, but got %d", rec.Code)
		}
	})

	t.Run("draw listing with filters", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/draws?category=mark-six&status=completed", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}
		var page models.DrawPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if page.Total != 1 || page.Data[0].DrawNumber != "0001/25" {
			t.Errorf("Expected only 0001/25, but got %+v", page)
		}
		if page.PerPage != services.PageSize {
			t.Errorf("Expected per_page %d, but got %d", services.PageSize, page.PerPage)
		}
	})

	t.Run("draw detail includes related draws", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/draws/"+completed.ID.Hex(), "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Draw         *models.Draw   `json:"draw"`
			RelatedDraws []*models.Draw `json:"related_draws"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Draw == nil || body.Draw.DrawNumber != "0001/25" {
			t.Fatalf("Unexpected draw payload: %s", rec.Body.String())
		}
		if body.RelatedDraws == nil {
			t.Error("Expected a related_draws array, possibly empty")
		}
	})

	t.Run("unknown draw id returns 404", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/draws/bbbbbbbbbbbbbbbbbbbbbbbb", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, but got %d", rec.Code)
		}
	})

	t.Run("malformed draw id returns 400", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/draws/not-an-id", "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, but got %d", rec.Code)
		}
	})

	t.Run("home returns every landing page section", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/home?category=mark-six", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		for _, key := range []string{"draws", "categories", "live_draws", "featured_draws", "filters"} {
			if _, ok := body[key]; !ok {
				t.Errorf("Expected a %q section in the home payload", key)
			}
		}
	})

	t.Run("category listing only shows active categories", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/categories", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d", rec.Code)
		}
		var categories []*models.DrawCategory
		if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(categories) != 2 {
			t.Errorf("Expected 2 categories, but got %d", len(categories))
		}
	})
}

func TestAdminAuthentication(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/admin/draws", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, but got %d", rec.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/admin/draws", "garbage", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, but got %d", rec.Code)
		}
	})

	t.Run("wrong password is rejected at login", func(t *testing.T) {
		if _, err := env.authService.CreateAdmin(context.Background(), "Admin", "admin@example.com", "s3cret-pass"); err != nil {
			t.Fatalf("Failed to create admin: %v", err)
		}
		rec := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "admin@example.com",
			"password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, but got %d", rec.Code)
		}
	})
}

func TestAdminDrawCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	category := env.seedCategory(t, "Mark Six")

	var createdID string

	t.Run("create", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/v1/admin/draws", token, gin.H{
			"draw_category_id": category.ID.Hex(),
			"draw_number":      "0001/25",
			"winning_numbers":  []int{3, 11, 17, 24, 38, 45},
			"draw_date":        "2025-01-15 21:30:00",
			"status":           "completed",
			"prize_breakdown": gin.H{
				"first_prize": gin.H{"winners": 1, "amount": 5000000},
			},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, but got %d: %s", rec.Code, rec.Body.String())
		}
		var draw models.Draw
		if err := json.Unmarshal(rec.Body.Bytes(), &draw); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if draw.ID.IsZero() {
			t.Fatal("Expected the created draw to have an ID")
		}
		createdID = draw.ID.Hex()
	})

	t.Run("validation errors come back as field messages", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/v1/admin/draws", token, gin.H{
			"draw_category_id": category.ID.Hex(),
			"draw_number":      "0002/25",
			"winning_numbers":  []int{3, 72},
			"draw_date":        "2025-01-16 21:30:00",
			"status":           "completed",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("Expected 422, but got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := body.Errors["winning_numbers"]; !ok {
			t.Errorf("Expected a winning_numbers message, but got %v", body.Errors)
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := env.request(t, http.MethodPut, "/api/v1/admin/draws/"+createdID, token, gin.H{
			"draw_category_id": category.ID.Hex(),
			"draw_number":      "0001/25",
			"winning_numbers":  []int{1, 2, 3, 4, 5, 6},
			"draw_date":        "2025-01-15 21:30:00",
			"status":           "completed",
			"notes":            "rechecked results",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}
		var draw models.Draw
		if err := json.Unmarshal(rec.Body.Bytes(), &draw); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if draw.Notes != "rechecked results" {
			t.Errorf("Expected updated notes, but got %q", draw.Notes)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.request(t, http.MethodDelete, "/api/v1/admin/draws/"+createdID, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}
		rec = env.request(t, http.MethodGet, "/api/v1/admin/draws/"+createdID, token, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, but got %d", rec.Code)
		}
	})
}

func TestAdminCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var createdID string

	t.Run("create derives the slug", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/v1/admin/categories", token, gin.H{
			"name": "Mark Six",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, but got %d: %s", rec.Code, rec.Body.String())
		}
		var category models.DrawCategory
		if err := json.Unmarshal(rec.Body.Bytes(), &category); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if category.Slug != "mark-six" {
			t.Errorf("Expected slug mark-six, but got %q", category.Slug)
		}
		createdID = category.ID.Hex()
	})

	t.Run("duplicate slug returns field errors", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/v1/admin/categories", token, gin.H{
			"name": "Different Name",
			"slug": "mark-six",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("Expected 422, but got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete cascades to draws", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			env.seedDraw(t, createdID, fmt.Sprintf("%04d/25", i+1), "completed", "2025-01-15 21:30:00")
		}
		rec := env.request(t, http.MethodDelete, "/api/v1/admin/categories/"+createdID, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, but got %d: %s", rec.Code, rec.Body.String())
		}

		rec = env.request(t, http.MethodGet, "/api/v1/draws", "", nil)
		var page models.DrawPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if page.Total != 0 {
			t.Errorf("Expected no draws after the cascade, but got %d", page.Total)
		}
	})
}
