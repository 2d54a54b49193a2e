package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"
	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedOracle struct{}

func (fixedOracle) EstimateServingGrams(context.Context, string) (services.ServingEstimate, error) {
	return services.ServingEstimate{Grams: 250}, nil
}

func (fixedOracle) EstimateFull(_ context.Context, name string) (services.FullEstimate, error) {
	if name == "mystery-dish" {
		return services.FullEstimate{ServingGrams: 200, Nutrients: models.Nutrients{Calories: 300}}, nil
	}
	return services.FullEstimate{}, services.ErrOracleTimeout
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	nc, err := config.DefaultNutritionConfig()
	require.NoError(t, err)
	log := zap.NewNop()
	refs := services.NewReferenceStore(db, nc.Fuzzy, log)
	seed, err := config.LoadReferenceSeed("")
	require.NoError(t, err)
	require.NoError(t, refs.SeedReferences(context.Background(), seed))
	require.NoError(t, db.Create(&models.Member{FirebaseUID: "m1"}).Error)

	resolver := services.NewResolver(refs, fixedOracle{}, 2, log)
	meals := services.NewMealService(db, resolver, log)
	return SetupRouter(Deps{
		Foods:   services.NewFoodService(nil, resolver),
		Meals:   meals,
		Targets: services.NewTargetService(db, meals, nc.Targets),
		Log:     log,
	})
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, out := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestResolveEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w, out := do(t, r, http.MethodPost, "/api/foods/resolve", gin.H{
		"foods": []gin.H{{"name": "apple", "confidence": 0.9}, {"name": "rare-dish"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	results := out["nutrition_results"].([]any)
	require.Len(t, results, 2)
	apple := results[0].(map[string]any)
	assert.Equal(t, "exact", apple["tier"])
	assert.InDelta(t, 130, apple["nutrients"].(map[string]any)["calories"], 1e-9)
	assert.Equal(t, "unknown", results[1].(map[string]any)["tier"])
}

func TestDetectWithoutDetector(t *testing.T) {
	r := newTestRouter(t)
	w, out := do(t, r, http.MethodPost, "/api/foods/detect", gin.H{"image_base64": "AAAA"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, out["success"])
}

func TestMealLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w, _ := do(t, r, http.MethodPost, "/api/meals", gin.H{
		"member_id": "m1", "meal_time": "점심", "meal_date": "2025-03-01",
		"foods": []gin.H{{"name": "apple"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown slot label")

	w, out := do(t, r, http.MethodPost, "/api/meals", gin.H{
		"member_id": "m1", "meal_time": "중식", "meal_date": "2025-03-01",
		"foods": []gin.H{{"name": "apple"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "lunch", out["meal"].(map[string]any)["slot"])

	w, _ = do(t, r, http.MethodPost, "/api/meals", gin.H{
		"member_id": "m1", "meal_time": "dinner", "meal_date": "2025-03-01",
		"foods": []gin.H{{"name": "mystery-dish"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, out = do(t, r, http.MethodGet, "/api/nutrition/daily/m1/2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	daily := out["daily"].(map[string]any)
	assert.InDelta(t, 430, daily["total_nutrition"].(map[string]any)["calories"], 1e-9)

	w, out = do(t, r, http.MethodPut, "/api/meals/m1/2025-03-01/lunch", gin.H{"foods": []string{"apple", "apple"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["meal"].(map[string]any)["items"], 2)

	w, out = do(t, r, http.MethodGet, "/api/meals/m1/2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, out["count"])

	w, out = do(t, r, http.MethodGet, "/api/meals/m1/2025-03-01/"+url.PathEscape("중식"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	lunch := out["meal"].(map[string]any)
	assert.Equal(t, "lunch", lunch["slot"])
	assert.InDelta(t, 260, lunch["total_nutrition"].(map[string]any)["calories"], 1e-9)
	assert.EqualValues(t, 0, lunch["unknown_items"])

	w, _ = do(t, r, http.MethodDelete, "/api/meals/m1/2025-03-01/dinner", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/meals/m1/2025-03-01/dinner", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out = do(t, r, http.MethodGet, "/api/nutrition/progress/m1/2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := out["progress"].(map[string]any)
	assert.InDelta(t, 260, progress["total_nutrition"].(map[string]any)["calories"], 1e-9)
}

func TestErrorStatuses(t *testing.T) {
	r := newTestRouter(t)

	w, _ := do(t, r, http.MethodGet, "/api/meals/ghost/2025-03-01", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/nutrition/daily/m1/yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/meals/m1/2025-03-01/snack", gin.H{"foods": []string{"apple"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/meals/m1/2025-03-01/snack", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/meals/m1/2025-03-01/brunch", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
