package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/savorly/v1/internal/domain/constraint"
	"github.com/savorly/v1/internal/domain/pantry"
	"github.com/savorly/v1/internal/domain/recipe"
	"github.com/savorly/v1/internal/infrastructure/monitoring"
	"github.com/savorly/v1/internal/ports/inbound"
	"github.com/savorly/v1/internal/ports/outbound"
	"github.com/savorly/v1/pkg/errors"
)

const (
	// DefaultTopK is how many results a request gets when it does not say.
	DefaultTopK = 5

	// DefaultWorkers bounds concurrent candidate scoring per request.
	DefaultWorkers = 8

	defaultCacheTTL = 5 * time.Minute
	cacheKeyPrefix  = "recommend:v1:"
)

// Service implements the recommendation use cases.
type Service struct {
	catalog       outbound.RecipeCatalog
	pantry        outbound.PantryRepository
	cache         outbound.CacheRepository
	scorer        *Scorer
	metrics       *monitoring.Metrics
	logger        *zap.Logger
	workers       int
	cacheTTL      time.Duration
	defaultTopK   int
	defaultWindow int
}

// Options tunes the service. Zero values fall back to the package
// defaults.
type Options struct {
	Workers            int
	CacheTTL           time.Duration
	TopK               int
	ExpiringWindowDays int
}

// NewService creates a new recommendation service. cache and metrics may
// be nil; caching and instrumentation are then skipped.
func NewService(
	catalog outbound.RecipeCatalog,
	pantry outbound.PantryRepository,
	cache outbound.CacheRepository,
	scorer *Scorer,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	opts Options,
) inbound.RecommendationService {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.ExpiringWindowDays <= 0 {
		opts.ExpiringWindowDays = constraint.DefaultExpiringWindowDays
	}
	return &Service{
		catalog:       catalog,
		pantry:        pantry,
		cache:         cache,
		scorer:        scorer,
		metrics:       metrics,
		logger:        logger.Named("recommend-service"),
		workers:       opts.Workers,
		cacheTTL:      opts.CacheTTL,
		defaultTopK:   opts.TopK,
		defaultWindow: opts.ExpiringWindowDays,
	}
}

// ParseConstraints exposes the free-text parser.
func (s *Service) ParseConstraints(text string) constraint.UserConstraints {
	return ParseConstraints(text)
}

// Recommend runs the full pipeline: constraint resolution, catalog
// filtering, concurrent scoring, and ranking.
func (s *Service) Recommend(ctx context.Context, cmd inbound.RecommendCommand) (*inbound.RecommendationList, error) {
	started := time.Now()

	cons := s.resolveConstraints(cmd)
	topK := cmd.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	key := s.cacheKey(cons, topK)
	if cached := s.fromCache(ctx, key, cons); cached != nil {
		s.metrics.ObserveCacheHit()
		return cached, nil
	}
	s.metrics.ObserveCacheMiss()

	recipes, err := s.catalog.ListRecipes(ctx)
	if err != nil {
		return nil, errors.NewCatalogError(err)
	}
	snap, err := s.pantry.Snapshot(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("read pantry snapshot", err)
	}

	candidates := FilterCandidates(recipes, cons)
	s.logger.Debug("filtered candidates",
		zap.Int("catalog", len(recipes)),
		zap.Int("candidates", len(candidates)),
	)

	scored := s.scoreAll(ctx, candidates, snap, cons)
	ranked := RankTopK(scored, topK)

	list := &inbound.RecommendationList{
		Recommendations: s.toDTOs(ranked),
		Constraints:     cons,
		Total:           len(scored),
	}

	s.toCache(ctx, key, list)
	s.metrics.ObserveRecommendation(time.Since(started), len(candidates))
	s.logger.Info("recommendation served",
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(list.Recommendations)),
		zap.Duration("took", time.Since(started)),
	)
	return list, nil
}

// resolveConstraints prefers structured constraints over free text. A
// configured expiring window replaces the package default unless the
// request names its own.
func (s *Service) resolveConstraints(cmd inbound.RecommendCommand) constraint.UserConstraints {
	if cmd.Constraints == nil {
		cons := ParseConstraints(cmd.Text)
		if cons.ExpiringWindowDays == constraint.DefaultExpiringWindowDays {
			cons.ExpiringWindowDays = s.defaultWindow
		}
		return cons
	}

	cc := cmd.Constraints
	cons := constraint.New()
	cons.ExpiringWindowDays = s.defaultWindow
	cons.Mood = constraint.ParseMood(cc.Mood)
	cons.Energy = constraint.ParseEnergy(cc.Energy)
	cons.NutritionGoal = constraint.ParseGoal(cc.NutritionGoal)
	cons.MaxTimeMinutes = cc.MaxTimeMinutes
	if cc.ExpiringWindowDays != nil && *cc.ExpiringWindowDays > 0 {
		cons.ExpiringWindowDays = *cc.ExpiringWindowDays
	}
	for _, d := range cc.DietTypes {
		if n := recipe.NormalizeName(d); n != "" {
			cons.DietTypes = append(cons.DietTypes, n)
		}
	}
	for _, in := range cc.IncludeIngredients {
		if n := recipe.NormalizeName(in); n != "" {
			cons.IncludeIngredients = append(cons.IncludeIngredients, n)
		}
	}
	for _, ex := range cc.ExcludeIngredients {
		if n := recipe.NormalizeName(ex); n != "" {
			cons.ExcludeIngredients = append(cons.ExcludeIngredients, n)
		}
	}
	cons.DietTypes = dedupe(cons.DietTypes)
	cons.ExcludeIngredients = dedupe(cons.ExcludeIngredients)
	cons.IncludeIngredients = subtract(dedupe(cons.IncludeIngredients), cons.ExcludeIngredients)
	return cons
}

// scoreAll scores candidates concurrently with a bounded worker pool.
// Results land in index-addressed slots, so ordering never depends on
// goroutine scheduling. A candidate whose scoring panics is rescored on
// the heuristic path so it still reaches the ranking; one bad recipe
// never fails the request.
func (s *Service) scoreAll(ctx context.Context, candidates []*recipe.Recipe, snap pantry.Snapshot, cons constraint.UserConstraints) []ScoreBreakdown {
	results := make([]ScoreBreakdown, len(candidates))
	ok := make([]bool, len(candidates))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, r := range candidates {
		wg.Add(1)
		go func(i int, r *recipe.Recipe) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if p := recover(); p != nil {
					s.logger.Error("scoring candidate panicked",
						zap.Int64("recipe_id", r.ID),
						zap.Any("panic", p),
					)
					results[i], ok[i] = s.rescoreDegraded(r, snap, cons)
				}
			}()
			if ctx.Err() != nil {
				return
			}
			results[i] = s.scorer.Score(r, snap, cons)
			ok[i] = true
			s.metrics.ObserveMoodEnergyPath(results[i].MoodEnergyDetail.MLUsed)
		}(i, r)
	}
	wg.Wait()

	scored := make([]ScoreBreakdown, 0, len(candidates))
	for i := range results {
		if ok[i] {
			scored = append(scored, results[i])
		}
	}
	return scored
}

// rescoreDegraded retries a panicked candidate with the model disabled:
// coverage, expiring and nutrition come out as usual, mood/energy takes
// the heuristic fallback. A second panic drops the candidate for real.
func (s *Service) rescoreDegraded(r *recipe.Recipe, snap pantry.Snapshot, cons constraint.UserConstraints) (b ScoreBreakdown, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("degraded scoring panicked, dropping candidate",
				zap.Int64("recipe_id", r.ID),
				zap.Any("panic", p),
			)
			ok = false
		}
	}()
	b = s.scorer.ScoreHeuristic(r, snap, cons)
	s.metrics.ObserveMoodEnergyPath(false)
	return b, true
}

func (s *Service) toDTOs(ranked []ScoreBreakdown) []inbound.RecommendationDTO {
	out := make([]inbound.RecommendationDTO, 0, len(ranked))
	for _, b := range ranked {
		me := b.MoodEnergyDetail
		out = append(out, inbound.RecommendationDTO{
			RecipeID:           b.Recipe.ID,
			Title:              b.Recipe.Title,
			TimeMinutes:        b.Recipe.TimeMinutes,
			FinalScore:         b.Final,
			Reason:             b.Reason,
			Explanation:        b.Explanation,
			MissingIngredients: b.MissingIngredients,
			Debug: inbound.ScoreDebugDTO{
				Coverage:        b.Coverage,
				Expiring:        b.Expiring,
				Nutrition:       b.Nutrition,
				MoodEnergy:      b.MoodEnergy,
				Weights:         s.scorer.Weights().Map(),
				MatchedExpiring: sortedUnique(b.MatchedExpiring),
				MLUsed:          me.MLUsed,
				MLReason:        me.MLReason,
				MoodPrediction:  me.Mood,
				EnergyPredict:   me.Energy,
			},
		})
	}
	return out
}

// cacheKey fingerprints the fully resolved constraints plus top-k, so
// free-text and structured requests that resolve identically share one
// entry.
func (s *Service) cacheKey(cons constraint.UserConstraints, topK int) string {
	payload, err := json.Marshal(struct {
		Mood     constraint.Mood          `json:"mood"`
		Energy   constraint.EnergyLevel   `json:"energy"`
		Diet     []string                 `json:"diet"`
		Include  []string                 `json:"include"`
		Exclude  []string                 `json:"exclude"`
		MaxTime  *int                     `json:"max_time"`
		Goal     constraint.NutritionGoal `json:"goal"`
		Window   int                      `json:"window"`
		Macro    constraint.MacroHint     `json:"macro"`
		Priority string                   `json:"priority"`
		TopK     int                      `json:"top_k"`
	}{
		cons.Mood, cons.Energy, cons.DietTypes, cons.IncludeIngredients,
		cons.ExcludeIngredients, cons.MaxTimeMinutes, cons.NutritionGoal,
		cons.ExpiringWindowDays, cons.PrioritizeMacro, cons.PrioritizeIngredient, topK,
	})
	if err != nil {
		return cacheKeyPrefix + "unfingerprintable"
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *Service) fromCache(ctx context.Context, key string, cons constraint.UserConstraints) *inbound.RecommendationList {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var list inbound.RecommendationList
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil
	}
	list.Constraints = cons
	return &list
}

func (s *Service) toCache(ctx context.Context, key string, list *inbound.RecommendationList) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("failed to encode response for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
