package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"size-fit/internal/domain"
	"size-fit/internal/repository"
	"size-fit/internal/service"
)

type mockSizeChartRepo struct {
	charts map[string]domain.SizeChart
}

func (m *mockSizeChartRepo) GetByProductID(_ context.Context, productID string) (domain.SizeChart, error) {
	chart, ok := m.charts[productID]
	if !ok {
		return domain.SizeChart{}, pgx.ErrNoRows
	}
	return chart, nil
}

func (m *mockSizeChartRepo) Replace(_ context.Context, chart domain.SizeChart) error {
	if prev, ok := m.charts[chart.ProductID]; ok && prev.MerchantID != chart.MerchantID {
		return repository.ErrNotChartOwner
	}
	m.charts[chart.ProductID] = chart
	return nil
}

type mockShopperProfileRepo struct {
	profiles map[string]domain.ShopperBodyProfile
}

func (m *mockShopperProfileRepo) Upsert(_ context.Context, profile domain.ShopperBodyProfile) error {
	m.profiles[profile.ShopperID] = profile
	return nil
}

func (m *mockShopperProfileRepo) GetByShopperID(_ context.Context, shopperID string) (domain.ShopperBodyProfile, error) {
	p, ok := m.profiles[shopperID]
	if !ok {
		return domain.ShopperBodyProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

type testEnv struct {
	router *gin.Engine
	jwt    *service.JWTService
}

func setupRouter(withStore bool, limiter service.RateLimiter) testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	var fitting *service.FittingService
	if withStore {
		fitting = service.NewFittingService(logger,
			&mockSizeChartRepo{charts: make(map[string]domain.SizeChart)},
			&mockShopperProfileRepo{profiles: make(map[string]domain.ShopperBodyProfile)},
		)
	} else {
		fitting = service.NewFittingService(logger, nil, nil)
	}
	jwtSvc := service.NewJWTService("secret", 15*time.Minute)
	r := NewRouter(logger,
		NewFittingHandler(logger, fitting),
		NewCatalogHandler(logger, fitting),
		NewShopperHandler(logger, fitting),
		jwtSvc,
		limiter,
	)
	return testEnv{router: r, jwt: jwtSvc}
}

func performRequest(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestEstimateEndpoint(t *testing.T) {
	env := setupRouter(false, nil)

	t.Run("valid profile", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/estimate", map[string]any{
			"height_cm": 165, "weight_kg": 60, "age_years": 28, "gender": "female",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		got := decode[domain.EstimatedMeasurements](t, rec)
		if got.WaistCM != 65 || got.HipCM != 94 || got.BustCM != 95 {
			t.Fatalf("unexpected measurements %+v", got)
		}
	})

	t.Run("unsupported gender", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/estimate", map[string]any{
			"height_cm": 165, "weight_kg": 60, "gender": "robot",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/estimate", `{"height_cm": "tall"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRecommendEndpoint(t *testing.T) {
	env := setupRouter(false, nil)

	t.Run("ideal ease", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/recommend", map[string]any{
			"estimated_measurements": map[string]any{"bust_cm": 0, "waist_cm": 64, "hip_cm": 89},
			"size_variants": []map[string]any{
				{"name": "P", "measurements": map[string]any{"waist": 62, "hip": 87}, "stock": 4},
				{"name": "M", "equivalence": "40", "measurements": map[string]any{"waist": 67, "hip": 92}, "stock": 4},
			},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		got := decode[domain.SizeRecommendation](t, rec)
		if got.SuggestedSize != "M (Ref: 40)" || got.Confidence != domain.ConfidencePerfect {
			t.Fatalf("unexpected recommendation %+v", got)
		}
		if len(got.AlternativeSizes) != 1 || got.AlternativeSizes[0].Size != "P" {
			t.Fatalf("unexpected alternatives %+v", got.AlternativeSizes)
		}
	})

	t.Run("no variants degrades", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/recommend", map[string]any{
			"estimated_measurements": map[string]any{"waist_cm": 64},
			"size_variants":          []any{},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		got := decode[domain.SizeRecommendation](t, rec)
		if got.SuggestedSize != service.NoDataSizeLabel {
			t.Fatalf("expected no data label, got %+v", got)
		}
	})

	t.Run("missing measurements", func(t *testing.T) {
		rec := performRequest(env.router, http.MethodPost, "/fitting/recommend", map[string]any{
			"size_variants": []any{},
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestFittingRoutesRateLimited(t *testing.T) {
	env := setupRouter(false, service.NewMemoryRateLimiter(time.Minute, 1))
	body := map[string]any{"height_cm": 170, "weight_kg": 70, "gender": "male"}

	if rec := performRequest(env.router, http.MethodPost, "/fitting/estimate", body); rec.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodPost, "/fitting/estimate", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz outside limiter, got %d", rec.Code)
	}
}

func TestSizeChartRequiresMerchantToken(t *testing.T) {
	env := setupRouter(true, nil)
	chart := map[string]any{
		"size_variants": []map[string]any{
			{"name": "P", "measurements": map[string]any{"waist": 62}, "stock": 1},
			{"name": "M", "measurements": map[string]any{"waist": 67}, "stock": 1},
		},
	}

	if rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart, "Authorization", "Bearer nope"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}

	token, err := env.jwt.GenerateAccessToken(domain.Merchant{ID: "m1"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodGet, "/products/p1/size-chart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[struct {
		SizeChart domain.SizeChart `json:"size_chart"`
	}](t, rec)
	if len(got.SizeChart.Variants) != 2 || got.SizeChart.Variants[0].Name != "P" {
		t.Fatalf("unexpected chart %+v", got.SizeChart)
	}
}

func TestSizeChartOwnedByMerchant(t *testing.T) {
	env := setupRouter(true, nil)
	chart := map[string]any{
		"size_variants": []map[string]any{{"name": "M", "measurements": map[string]any{"waist": 67}, "stock": 1}},
	}
	owner, _ := env.jwt.GenerateAccessToken(domain.Merchant{ID: "m1"})
	other, _ := env.jwt.GenerateAccessToken(domain.Merchant{ID: "m2"})

	if rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart, "Authorization", "Bearer "+owner); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart, "Authorization", "Bearer "+other); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign merchant, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodPut, "/products/p2/size-chart", chart, "Authorization", "Bearer "+other); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on own product, got %d", rec.Code)
	}
}

func TestSizeChartRejectsTokenWithoutMerchant(t *testing.T) {
	env := setupRouter(true, nil)
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "size-fit",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	chart := map[string]any{"size_variants": []map[string]any{{"name": "M", "stock": 1}}}
	if rec := performRequest(env.router, http.MethodPut, "/products/p1/size-chart", chart, "Authorization", "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token without merchant, got %d", rec.Code)
	}
}

func TestProductRecommendationFlow(t *testing.T) {
	env := setupRouter(true, nil)
	token, _ := env.jwt.GenerateAccessToken(domain.Merchant{ID: "m1"})
	performRequest(env.router, http.MethodPut, "/products/p1/size-chart", map[string]any{
		"size_variants": []map[string]any{
			{"name": "P", "measurements": map[string]any{"waist": 63, "hip": 92}, "stock": 2},
			{"name": "M", "measurements": map[string]any{"waist": 68, "hip": 97}, "stock": 0},
			{"name": "G", "measurements": map[string]any{"waist": 73, "hip": 102}, "stock": 2},
		},
	}, "Authorization", "Bearer "+token)

	rec := performRequest(env.router, http.MethodPut, "/shoppers/s1/body-profile", map[string]any{
		"height_cm": 165, "weight_kg": 60, "age_years": 28, "gender": "female",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPost, "/products/p1/recommendation", map[string]any{"shopper_id": "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[struct {
		Recommendation domain.SizeRecommendation `json:"recommendation"`
	}](t, rec)
	// M tendria calce perfecto, pero no tiene stock.
	if got.Recommendation.SuggestedSize == "M" {
		t.Fatalf("out of stock size recommended")
	}
	for _, alt := range got.Recommendation.AlternativeSizes {
		if alt.Size == "M" {
			t.Fatalf("out of stock size in alternatives")
		}
	}

	if rec := performRequest(env.router, http.MethodPost, "/products/missing/recommendation", map[string]any{"shopper_id": "s1"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := performRequest(env.router, http.MethodPost, "/products/p1/recommendation", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShopperRoutes(t *testing.T) {
	t.Run("unknown shopper", func(t *testing.T) {
		env := setupRouter(true, nil)
		if rec := performRequest(env.router, http.MethodGet, "/shoppers/ghost/body-profile", nil); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("store not configured", func(t *testing.T) {
		env := setupRouter(false, nil)
		if rec := performRequest(env.router, http.MethodGet, "/shoppers/s1/body-profile", nil); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		env := setupRouter(true, service.NewMemoryRateLimiter(time.Minute, 1))
		if rec := performRequest(env.router, http.MethodGet, "/shoppers/ghost/body-profile", nil); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if rec := performRequest(env.router, http.MethodGet, "/shoppers/ghost/body-profile", nil); rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		env := setupRouter(true, nil)
		rec := performRequest(env.router, http.MethodPut, "/shoppers/s1/body-profile", map[string]any{
			"height_cm": 0, "weight_kg": 60, "gender": "female",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
