package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cardiorisk/internal/models"
	"cardiorisk/internal/repositories"
	"cardiorisk/internal/services/auth"
	"cardiorisk/internal/services/prediction"
	"cardiorisk/internal/services/risk"
	"cardiorisk/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	args := m.Called(ctx, email, password, name)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, remember bool) (*models.User, string, string, error) {
	args := m.Called(ctx, email, password, remember)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, bool, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Bool(2), args.Error(3)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	args := m.Called(ctx, accessToken)
	claims, _ := args.Get(0).(*models.UserClaims)
	return claims, args.Error(1)
}

type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Evaluate(ctx context.Context, a risk.Assessment) (*prediction.Result, error) {
	args := m.Called(ctx, a)
	result, _ := args.Get(0).(*prediction.Result)
	return result, args.Error(1)
}

func (m *MockPredictionService) Create(ctx context.Context, userID uint, a risk.Assessment) (*models.Prediction, *prediction.Result, error) {
	args := m.Called(ctx, userID, a)
	p, _ := args.Get(0).(*models.Prediction)
	result, _ := args.Get(1).(*prediction.Result)
	return p, result, args.Error(2)
}

func (m *MockPredictionService) Get(ctx context.Context, userID uint, id uuid.UUID) (*models.Prediction, error) {
	args := m.Called(ctx, userID, id)
	p, _ := args.Get(0).(*models.Prediction)
	return p, args.Error(1)
}

func (m *MockPredictionService) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPredictionService) History(ctx context.Context, userID uint, limit, offset int) (*prediction.Page, error) {
	args := m.Called(ctx, userID, limit, offset)
	page, _ := args.Get(0).(*prediction.Page)
	return page, args.Error(1)
}

func (m *MockPredictionService) ListAll(ctx context.Context, limit, offset int) (*prediction.Page, error) {
	args := m.Called(ctx, limit, offset)
	page, _ := args.Get(0).(*prediction.Page)
	return page, args.Error(1)
}

// unusedRepo satisfies the repository interface for stateless scoring,
// which never touches storage.
type unusedRepo struct {
	repositories.PredictionRepository
}

func withClaims(userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{
			UserID:      userID,
			Role:        role,
			Permissions: models.GetDefaultPermissions(role),
		})
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp, out
}

func TestRiskHandler(t *testing.T) {
	svc := prediction.NewService(unusedRepo{}, nil, prediction.Config{}, nil)
	h := NewRiskHandler(svc)
	app := fiber.New()
	app.Post("/score", h.Score)
	app.Post("/bmi", h.BMI)
	app.Get("/chest-pain", h.ChestPainTypes)

	t.Run("scores an assessment", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/score", `{
			"age": 60, "cholesterol": 250, "systolic": 150, "diastolic": 95,
			"smoking_status": "current", "alcohol_consumption": "heavy",
			"family_history": "yes", "diabetes": "yes", "bmi": 32
		}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 100.0, body["score"])
		assert.Equal(t, "High", body["tier"])
		assert.Len(t, body["contributions"], 8)
	})

	t.Run("reports invalid fields", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/score", `{"age": 40, "cholesterol": 90, "systolic": 120, "diastolic": 80, "bmi": 22}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		fields := body["fields"].(map[string]interface{})
		assert.Equal(t, "Cholesterol must be at least 100 mg/dL", fields["cholesterol"])
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/score", `{`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("computes bmi", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/bmi", `{"height": 175, "weight": 70}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 22.9, body["bmi"])
	})

	t.Run("bmi rejects short height", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/bmi", `{"height": 40, "weight": 70}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		fields := body["fields"].(map[string]interface{})
		assert.Equal(t, "Height must be at least 50 cm", fields["height"])
	})

	t.Run("lists chest pain types", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/chest-pain", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["types"], 4)
	})
}

func TestPredictionHandler(t *testing.T) {
	id := uuid.New()

	setup := func() (*fiber.App, *MockPredictionService) {
		svc := new(MockPredictionService)
		h := NewPredictionHandler(svc, prediction.Config{})
		app := fiber.New()
		app.Use(withClaims(7, models.RoleUser))
		app.Post("/predictions", h.Create)
		app.Get("/predictions", h.List)
		app.Get("/predictions/:id", h.Get)
		app.Delete("/predictions/:id", h.Delete)
		app.Get("/admin/predictions", h.ListAll)
		return app, svc
	}

	t.Run("create", func(t *testing.T) {
		app, svc := setup()
		svc.On("Create", mock.Anything, uint(7), mock.AnythingOfType("risk.Assessment")).
			Return(&models.Prediction{ID: id, UserID: 7, RiskLevel: "Low"}, &prediction.Result{Score: 12, Tier: risk.TierLow}, nil)

		resp, body := doJSON(t, app, http.MethodPost, "/predictions", `{"age": 30, "cholesterol": 150, "systolic": 110, "diastolic": 70, "bmi": 21}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, id.String(), body["prediction"].(map[string]interface{})["id"])
		svc.AssertExpectations(t)
	})

	t.Run("create with invalid input", func(t *testing.T) {
		app, svc := setup()
		svc.On("Create", mock.Anything, uint(7), mock.Anything).
			Return(nil, nil, validation.Errors{"age": "Please fill in all required fields"})

		resp, _ := doJSON(t, app, http.MethodPost, "/predictions", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("list uses the limit query", func(t *testing.T) {
		app, svc := setup()
		svc.On("History", mock.Anything, uint(7), 5, 0).
			Return(&prediction.Page{Items: []models.Prediction{{ID: id}}, Total: 11}, nil)

		resp, body := doJSON(t, app, http.MethodGet, "/predictions?limit=5", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		pagination := body["pagination"].(map[string]interface{})
		assert.Equal(t, 3.0, pagination["last_page"])
		assert.Len(t, body["data"], 1)
	})

	t.Run("get with bad id", func(t *testing.T) {
		app, _ := setup()
		resp, _ := doJSON(t, app, http.MethodGet, "/predictions/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get missing prediction", func(t *testing.T) {
		app, svc := setup()
		svc.On("Get", mock.Anything, uint(7), id).Return(nil, prediction.ErrPredictionNotFound)

		resp, _ := doJSON(t, app, http.MethodGet, "/predictions/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		app, svc := setup()
		svc.On("Delete", mock.Anything, uint(7), id).Return(nil)

		resp, _ := doJSON(t, app, http.MethodDelete, "/predictions/"+id.String(), "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("admin list", func(t *testing.T) {
		app, svc := setup()
		svc.On("ListAll", mock.Anything, prediction.DefaultHistoryLimit, 20).
			Return(&prediction.Page{Items: []models.Prediction{}, Total: 0}, nil)

		resp, _ := doJSON(t, app, http.MethodGet, "/admin/predictions?page=2", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

type listRecorder struct {
	repositories.PredictionRepository
	limits []int
}

func (r *listRecorder) ListByUser(_ context.Context, _ uint, limit, _ int) ([]models.Prediction, int64, error) {
	r.limits = append(r.limits, limit)
	return []models.Prediction{}, 0, nil
}

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m mapCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	m[key] = data
	return err
}

func (m mapCache) Version(context.Context, string) (int64, error) { return 0, nil }

func (m mapCache) BumpVersion(context.Context, string) error { return nil }

func TestPredictionHandler_ListUsesConfiguredLimit(t *testing.T) {
	cfg := prediction.Config{DefaultLimit: 10}
	repo := &listRecorder{}
	svc := prediction.NewService(repo, mapCache{}, cfg, nil)
	h := NewPredictionHandler(svc, cfg)

	app := fiber.New()
	app.Use(withClaims(7, models.RoleUser))
	app.Get("/predictions", h.List)

	for i := 0; i < 2; i++ {
		resp, body := doJSON(t, app, http.MethodGet, "/predictions", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 10.0, body["pagination"].(map[string]interface{})["limit"])
	}

	// The second request is answered from the cached first page.
	assert.Equal(t, []int{10}, repo.limits)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict},
		{"invalid", validation.Errors{"email": "must be a valid email address"}, http.StatusUnprocessableEntity},
		{"storage failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			var user *models.User
			if tt.err == nil {
				user = &models.User{Email: "jo@example.com", Role: models.RoleUser}
			}
			svc.On("Register", mock.Anything, "jo@example.com", "secret1", "Jo").Return(user, tt.err)

			app := fiber.New()
			app.Post("/register", NewAuthHandler(svc, time.Minute, time.Hour).Register)

			resp, body := doJSON(t, app, http.MethodPost, "/register",
				`{"email":"jo@example.com","password":"secret1","name":"Jo"}`)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.err == nil {
				u := body["user"].(map[string]interface{})
				assert.NotContains(t, u, "password")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &models.User{Email: "jo@example.com", Role: models.RoleUser}

	t.Run("remember me sets persistent cookies", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "jo@example.com", "secret1", true).Return(user, "access", "refresh", nil)
		app := fiber.New()
		app.Post("/login", NewAuthHandler(svc, 15*time.Minute, time.Hour).Login)

		resp, body := doJSON(t, app, http.MethodPost, "/login",
			`{"email":" Jo@Example.com ","password":"secret1","remember_me":true}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "access", body["access_token"])

		cookies := resp.Cookies()
		require.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, 900, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("session cookies without remember me", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "jo@example.com", "secret1", false).Return(user, "access", "refresh", nil)
		app := fiber.New()
		app.Post("/login", NewAuthHandler(svc, 15*time.Minute, time.Hour).Login)

		resp, _ := doJSON(t, app, http.MethodPost, "/login", `{"email":"jo@example.com","password":"secret1"}`)
		require.Len(t, resp.Cookies(), 2)
		assert.Zero(t, resp.Cookies()[0].MaxAge)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "jo@example.com", "nope", false).Return(nil, "", "", auth.ErrInvalidCredentials)
		app := fiber.New()
		app.Post("/login", NewAuthHandler(svc, time.Minute, time.Hour).Login)

		resp, _ := doJSON(t, app, http.MethodPost, "/login", `{"email":"jo@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		app := fiber.New()
		app.Post("/login", NewAuthHandler(new(MockAuthService), time.Minute, time.Hour).Login)

		resp, _ := doJSON(t, app, http.MethodPost, "/login", `{"email":"jo@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthHandler_RefreshKeepsCookieLifetime(t *testing.T) {
	user := &models.User{Email: "jo@example.com", Role: models.RoleUser}

	tests := []struct {
		name       string
		remember   bool
		persistent bool
	}{
		{"session login stays a session", false, false},
		{"remembered login stays persistent", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			svc.On("Login", mock.Anything, "jo@example.com", "secret1", tt.remember).Return(user, "access", "ref", nil)
			svc.On("RefreshTokens", mock.Anything, "ref").Return("access2", "ref2", tt.remember, nil)

			h := NewAuthHandler(svc, 15*time.Minute, 7*24*time.Hour)
			app := fiber.New()
			app.Post("/login", h.Login)
			app.Post("/refresh", h.RefreshToken)

			body := `{"email":"jo@example.com","password":"secret1","remember_me":false}`
			if tt.remember {
				body = `{"email":"jo@example.com","password":"secret1","remember_me":true}`
			}
			resp, _ := doJSON(t, app, http.MethodPost, "/login", body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
			req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "ref"})
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			setCookies := resp.Header.Values("Set-Cookie")
			require.Len(t, setCookies, 2)
			for _, raw := range setCookies {
				hasLifetime := strings.Contains(strings.ToLower(raw), "max-age") ||
					strings.Contains(strings.ToLower(raw), "expires")
				assert.Equal(t, tt.persistent, hasLifetime, raw)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_SessionEndpoints(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc, time.Minute, time.Hour)
	app := fiber.New()
	app.Post("/refresh", h.RefreshToken)
	app.Use(withClaims(7, models.RoleUser))
	app.Get("/me", h.Me)
	app.Post("/logout", h.Logout)
	app.Post("/change-password", h.ChangePassword)

	svc.On("RefreshTokens", mock.Anything, "old").Return("", "", false, auth.ErrSessionExpired)
	svc.On("GetUserByID", mock.Anything, uint(7)).Return(&models.User{Email: "jo@example.com"}, nil)
	svc.On("Logout", mock.Anything, uint(7)).Return(nil)
	svc.On("ChangePassword", mock.Anything, uint(7), "wrong", "newpass1").Return(auth.ErrInvalidOldPassword)

	resp, body := doJSON(t, app, http.MethodPost, "/refresh", `{"refresh_token":"old"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Session expired", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jo@example.com", body["user"].(map[string]interface{})["email"])

	resp, _ = doJSON(t, app, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/change-password", `{"old_password":"wrong","new_password":"newpass1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	svc.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all up", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", NewHealthHandler(map[string]HealthCheckFunc{"database": ok, "redis": ok}).Check)

		resp, body := doJSON(t, app, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("redis down", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", NewHealthHandler(map[string]HealthCheckFunc{"database": ok, "redis": down}).Check)

		resp, body := doJSON(t, app, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		services := body["services"].(map[string]interface{})
		assert.Equal(t, "unavailable", services["redis"])
		assert.Equal(t, "connected", services["database"])
	})
}
