package meal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	aiservice "smartshop-ai/internal/core/ai/service"
	mealService "smartshop-ai/internal/core/meal"
	"smartshop-ai/internal/core/meal/index"
	"smartshop-ai/internal/infrastructure/config"
	"smartshop-ai/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher 測試用索引替身
type stubSearcher struct {
	hits    []index.Hit
	recipes []*common.Recipe
}

func (s *stubSearcher) Search(context.Context, string, int) ([]index.Hit, error) {
	return s.hits, nil
}

func (s *stubSearcher) RecipeAt(pos int) (*common.Recipe, bool) {
	if pos < 0 || pos >= len(s.recipes) {
		return nil, false
	}
	return s.recipes[pos], true
}

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Meal.TopK = 50
	cfg.Meal.MinSimilarity = 0.15
	cfg.Meal.ReturnCount = 3
	cfg.Meal.PromptLanguage = "Việt"
	cfg.Meal.Temperature = 0.6
	cfg.Meal.FeedbackPath = filepath.Join(t.TempDir(), "feedback.jsonl")
	cfg.Meal.Weights = config.RerankWeights{Semantic: 0.4, Preference: 0.25, Popularity: 0.2, Freshness: 0.1, Promo: 0.05}

	store := &stubSearcher{
		hits: []index.Hit{{Position: 0, Score: 0.9}},
		recipes: []*common.Recipe{
			{
				ID:   "pho-bo",
				Name: "Phở bò",
				Ingredients: []common.Ingredient{
					{Name: "bánh phở", ReferenceID: "p1"},
				},
			},
		},
	}

	assistant := mealService.NewAssistantService(cfg, store, aiservice.NewService(cfg, nil))
	h := NewHandler(assistant)

	router := gin.New()
	router.POST("/meal-assistant/suggest", h.HandleSuggest)
	router.POST("/meal-assistant/feedback", h.HandleFeedback)
	return router
}

func TestHandleSuggest(t *testing.T) {
	t.Run("valid request returns suggestions", func(t *testing.T) {
		router := newTestRouter(t)

		body := `{"query":"ăn gì hôm nay","available_products":["p1"]}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/suggest", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp mealService.SuggestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Suggestions, 1)
		assert.Equal(t, "pho-bo", resp.Suggestions[0].DishID)
		assert.NotEmpty(t, resp.LLMResponse)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("missing query is a bad request", func(t *testing.T) {
		router := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/suggest", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		router := newTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/suggest", strings.NewReader(`{not json`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("out of range temperature is rejected", func(t *testing.T) {
		router := newTestRouter(t)

		body := `{"query":"ăn gì","temperature":1.5}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/suggest", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleFeedback(t *testing.T) {
	t.Run("valid feedback is accepted", func(t *testing.T) {
		router := newTestRouter(t)

		body := `{"query":"ăn gì","chosen_recipe_id":"pho-bo","rating":5}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/feedback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("missing chosen recipe is a bad request", func(t *testing.T) {
		router := newTestRouter(t)

		body := `{"query":"ăn gì","rating":5}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/feedback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rating above five is rejected", func(t *testing.T) {
		router := newTestRouter(t)

		body := `{"query":"ăn gì","chosen_recipe_id":"pho-bo","rating":9}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/meal-assistant/feedback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
