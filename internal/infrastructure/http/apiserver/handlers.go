package apiserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	estimation "github.com/savorly/v1/internal/application/nutrition"
	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/infrastructure/monitoring"
	importer "github.com/savorly/v1/internal/infrastructure/nutrition"
	"github.com/savorly/v1/internal/ports/inbound"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/errors"
)

// maxBodyBytes caps request payloads; nutrition imports are the largest
// accepted bodies and stay well under this.
const maxBodyBytes = 1 << 20

// Handlers holds the REST API handlers.
type Handlers struct {
	recommend inbound.RecommendationService
	catalog   outbound.RecipeCatalog
	writer    outbound.CatalogWriter
	metrics   *monitoring.Metrics
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(
	recommend inbound.RecommendationService,
	catalog outbound.RecipeCatalog,
	writer outbound.CatalogWriter,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		recommend: recommend,
		catalog:   catalog,
		writer:    writer,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger.Named("api-handlers"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// recommendRequest is the POST /recommendations payload.
type recommendRequest struct {
	Text        string              `json:"text"`
	TopK        int                 `json:"top_k" validate:"omitempty,min=1,max=50"`
	Constraints *constraintsPayload `json:"constraints"`
}

// constraintsPayload is the structured alternative to free text.
type constraintsPayload struct {
	DietTypes          []string `json:"diet_types"`
	IncludeIngredients []string `json:"include_ingredients"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	MaxTimeMinutes     *int     `json:"max_time_minutes" validate:"omitempty,min=1"`
	Mood               string   `json:"mood"`
	Energy             string   `json:"energy"`
	NutritionGoal      string   `json:"nutrition_goal"`
	ExpiringWindowDays *int     `json:"expiring_window_days" validate:"omitempty,min=1"`
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" && req.Constraints == nil {
		h.writeError(w, r, errors.NewBadRequestError("either text or constraints is required"))
		return
	}

	cmd := inbound.RecommendCommand{
		Text: req.Text,
		TopK: req.TopK,
	}
	if req.Constraints != nil {
		cmd.Constraints = &inbound.ConstraintsCommand{
			DietTypes:          req.Constraints.DietTypes,
			IncludeIngredients: req.Constraints.IncludeIngredients,
			ExcludeIngredients: req.Constraints.ExcludeIngredients,
			MaxTimeMinutes:     req.Constraints.MaxTimeMinutes,
			Mood:               req.Constraints.Mood,
			Energy:             req.Constraints.Energy,
			NutritionGoal:      req.Constraints.NutritionGoal,
			ExpiringWindowDays: req.Constraints.ExpiringWindowDays,
		}
	}

	list, err := h.recommend.Recommend(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    list,
	})
}

// parseRequest is the POST /constraints/parse payload.
type parseRequest struct {
	Text string `json:"text" validate:"required"`
}

// constraintsView is the wire form of parsed constraints.
type constraintsView struct {
	Mood                 string   `json:"mood,omitempty"`
	Energy               string   `json:"energy,omitempty"`
	DietTypes            []string `json:"diet_types"`
	IncludeIngredients   []string `json:"include_ingredients"`
	ExcludeIngredients   []string `json:"exclude_ingredients"`
	MaxTimeMinutes       *int     `json:"max_time_minutes,omitempty"`
	NutritionGoal        string   `json:"nutrition_goal,omitempty"`
	ExpiringWindowDays   int      `json:"expiring_window_days"`
	PrioritizeIngredient string   `json:"prioritize_ingredient,omitempty"`
	PrioritizeMacro      string   `json:"prioritize_macro,omitempty"`
}

func toConstraintsView(c constraint.UserConstraints) constraintsView {
	return constraintsView{
		Mood:                 string(c.Mood),
		Energy:               string(c.Energy),
		DietTypes:            emptyIfNil(c.DietTypes),
		IncludeIngredients:   emptyIfNil(c.IncludeIngredients),
		ExcludeIngredients:   emptyIfNil(c.ExcludeIngredients),
		MaxTimeMinutes:       c.MaxTimeMinutes,
		NutritionGoal:        string(c.NutritionGoal),
		ExpiringWindowDays:   c.ExpiringWindowDays,
		PrioritizeIngredient: c.PrioritizeIngredient,
		PrioritizeMacro:      string(c.PrioritizeMacro),
	}
}

// ParseConstraints handles POST /api/v1/constraints/parse.
func (h *Handlers) ParseConstraints(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	parsed := h.recommend.ParseConstraints(req.Text)
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    toConstraintsView(parsed),
	})
}

// recipeView is the wire form of a catalog recipe.
type recipeView struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Ingredients []string       `json:"ingredients"`
	TimeMinutes int            `json:"time_minutes"`
	DietTags    []string       `json:"diet_tags"`
	Nutrition   *nutritionView `json:"nutrition,omitempty"`
}

type nutritionView struct {
	Calories *float64 `json:"calories,omitempty"`
	ProteinG *float64 `json:"protein_g,omitempty"`
	CarbsG   *float64 `json:"carbs_g,omitempty"`
	FatG     *float64 `json:"fat_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SodiumMG *float64 `json:"sodium_mg,omitempty"`
}

func toRecipeView(rec *recipe.Recipe) recipeView {
	view := recipeView{
		ID:          rec.ID,
		Title:       rec.Title,
		Ingredients: emptyIfNil(rec.Ingredients),
		TimeMinutes: rec.TimeMinutes,
		DietTags:    emptyIfNil(rec.DietTags),
	}
	if rec.Nutrition != nil {
		view.Nutrition = &nutritionView{
			Calories: rec.Nutrition.Calories,
			ProteinG: rec.Nutrition.ProteinG,
			CarbsG:   rec.Nutrition.CarbsG,
			FatG:     rec.Nutrition.FatG,
			SugarG:   rec.Nutrition.SugarG,
			FiberG:   rec.Nutrition.FiberG,
			SodiumMG: rec.Nutrition.SodiumMG,
		}
	}
	return view
}

// GetRecipe handles GET /api/v1/recipes/{id}.
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	rec, err := h.catalog.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, errors.NewCatalogError(err))
		return
	}
	if rec == nil {
		h.writeError(w, r, errors.NewRecipeNotFoundError(id))
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    toRecipeView(rec),
	})
}

// importResult summarizes an accepted nutrition import.
type importResult struct {
	RecipeID        int64          `json:"recipe_id"`
	Source          string         `json:"source"`
	Nutrition       *nutritionView `json:"nutrition"`
	Completeness    float64        `json:"completeness"`
	Quality         string         `json:"quality"`
	EstimatedFields []string       `json:"estimated_fields"`
}

// ImportNutrition handles POST /api/v1/recipes/{id}/nutrition/import.
// The source query parameter selects the payload shape; it defaults to
// the generic flat form.
func (h *Handlers) ImportNutrition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	rec, err := h.catalog.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, errors.NewCatalogError(err))
		return
	}
	if rec == nil {
		h.writeError(w, r, errors.NewRecipeNotFoundError(id))
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = importer.SourceGeneric
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("failed to read request body"))
		return
	}

	record, err := importer.ParseRecord(source, body)
	if err != nil {
		h.metrics.ObserveImport(source, "rejected")
		h.writeError(w, r, err)
		return
	}

	rec.Nutrition = &record
	if err := h.writer.Save(r.Context(), rec); err != nil {
		h.writeError(w, r, errors.NewDatabaseError("save recipe nutrition", err))
		return
	}
	h.metrics.ObserveImport(source, "accepted")

	est := estimation.Estimate(record)
	h.logger.Info("nutrition imported",
		zap.Int64("recipe_id", id),
		zap.String("source", source),
		zap.Float64("completeness", est.Completeness),
		zap.String("quality", string(est.Quality)),
	)

	view := toRecipeView(rec)
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: importResult{
			RecipeID:        id,
			Source:          source,
			Nutrition:       view.Nutrition,
			Completeness:    est.Completeness,
			Quality:         string(est.Quality),
			EstimatedFields: emptyIfNil(est.EstimatedFields),
		},
		Message: "Nutrition record imported",
	})
}

// decodeBody decodes and validates a JSON request body. It writes the
// error response itself and reports whether the handler should continue.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("invalid JSON body: "+err.Error()))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.writeError(w, r, errors.NewValidationError(err.Error()))
		return false
	}
	return true
}

func (h *Handlers) recipeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, r, errors.NewBadRequestError("recipe id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "request failed")
	requestID := chimiddleware.GetReqID(r.Context())

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("Request rejected",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if encErr := json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, requestID)); encErr != nil {
		h.logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
