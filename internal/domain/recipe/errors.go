package recipe

import "errors"

// Domain errors for catalog recipes.

var (
	ErrTitleRequired = errors.New("recipe title is required")
	ErrInvalidTime   = errors.New("recipe time must not be negative")

	// ErrInsufficientNutrition signals that a nutrition record has no
	// calorie basis for estimation. It never surfaces to callers of the
	// scoring pipeline; the scorer catches it and falls back to the
	// heuristic mood/energy path.
	ErrInsufficientNutrition = errors.New("nutrition record has no calorie basis")
)
