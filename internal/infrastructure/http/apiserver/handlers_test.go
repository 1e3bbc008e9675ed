package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/savorly/v1/internal/application/recommend"
	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/infrastructure/persistence/memory"
	"github.com/savorly/v1/test/testutils"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memory.CatalogRepository) {
	t.Helper()

	catalog := memory.NewCatalogRepository(testCatalogRecipes())
	pantryRepo := memory.NewPantryRepository([]pantry.Item{
		testutils.NewPantryBuilder("eggs").ExpiringIn(2).Build(),
		testutils.NewPantryBuilder("spinach").ExpiringIn(1).Build(),
	})
	scorer := recommend.NewScorer(recommend.DefaultWeights(), nil, nil)
	svc := recommend.NewService(catalog, pantryRepo, nil, scorer, nil, zaptest.NewLogger(t), recommend.Options{})

	h := NewHandlers(svc, catalog, catalog, nil, zaptest.NewLogger(t))

	r := chi.NewRouter()
	r.Post("/recommendations", h.Recommend)
	r.Post("/constraints/parse", h.ParseConstraints)
	r.Get("/recipes/{id}", h.GetRecipe)
	r.Post("/recipes/{id}/nutrition/import", h.ImportNutrition)
	return r, catalog
}

func testCatalogRecipes() []*recipe.Recipe {
	return []*recipe.Recipe{
		testutils.NewRecipeBuilder().
			WithID(1).
			WithTitle("Spinach Omelette").
			WithIngredients("eggs", "spinach", "butter").
			WithTime(10).
			WithDietTags("vegetarian").
			Build(),
		testutils.NewRecipeBuilder().
			WithID(2).
			WithTitle("Garlic Butter Salmon").
			WithIngredients("salmon", "butter", "garlic").
			WithTime(25).
			Build(),
		testutils.NewRecipeBuilder().
			WithID(3).
			WithTitle("Simple Pasta with Tomato Sauce").
			WithIngredients("pasta", "tomato sauce", "garlic").
			WithTime(20).
			WithDietTags("vegetarian", "vegan").
			Build(),
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRecommendEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recommendations", map[string]interface{}{
		"text":  "something with eggs",
		"top_k": 3,
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Recommendations []struct {
				RecipeID   int64   `json:"recipe_id"`
				Title      string  `json:"title"`
				FinalScore float64 `json:"final_score"`
				Reason     string  `json:"reason"`
			} `json:"recommendations"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Data.Recommendations)
	assert.Equal(t, int64(1), resp.Data.Recommendations[0].RecipeID)
	assert.NotEmpty(t, resp.Data.Recommendations[0].Reason)
}

func TestRecommendEndpointRequiresTextOrConstraints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recommendations", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendEndpointRejectsBadTopK(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recommendations", map[string]interface{}{
		"text":  "dinner",
		"top_k": 500,
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecommendEndpointStructuredConstraints(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recommendations", map[string]interface{}{
		"constraints": map[string]interface{}{
			"include_ingredients": []string{"salmon"},
		},
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Recommendations []struct {
				RecipeID int64 `json:"recipe_id"`
			} `json:"recommendations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Recommendations, 1)
	assert.Equal(t, int64(2), resp.Data.Recommendations[0].RecipeID)
}

func TestParseConstraintsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/constraints/parse", map[string]interface{}{
		"text": "vegan dinner under 30 minutes, no mushrooms",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data constraintsView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, []string{"vegan"}, resp.Data.DietTypes)
	require.NotNil(t, resp.Data.MaxTimeMinutes)
	assert.Equal(t, 30, *resp.Data.MaxTimeMinutes)
	assert.Equal(t, []string{"mushrooms"}, resp.Data.ExcludeIngredients)
}

func TestParseConstraintsEndpointRequiresText(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/constraints/parse", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetRecipeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recipes/1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data recipeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "Spinach Omelette", resp.Data.Title)
}

func TestGetRecipeEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recipes/999", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetRecipeEndpointBadID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recipes/omelette", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestImportNutritionEndpoint(t *testing.T) {
	router, catalog := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recipes/2/nutrition/import?source=generic", map[string]interface{}{
		"calories": 480,
		"protein":  38,
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data importResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, int64(2), resp.Data.RecipeID)
	assert.Equal(t, "generic", resp.Data.Source)
	assert.InDelta(t, 2.0/6.0, resp.Data.Completeness, 1e-9)
	assert.Equal(t, "low", resp.Data.Quality)
	assert.Contains(t, resp.Data.EstimatedFields, "carbs_g")

	// The record persisted onto the catalog recipe.
	rec, err := catalog.FindByID(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, rec.Nutrition)
	assert.InDelta(t, 480, *rec.Nutrition.Calories, 1e-9)
}

func TestImportNutritionEndpointUnknownSource(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recipes/1/nutrition/import?source=bogus", map[string]interface{}{
		"calories": 480,
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestImportNutritionEndpointUnknownRecipe(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/recipes/404/nutrition/import", map[string]interface{}{
		"calories": 480,
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
