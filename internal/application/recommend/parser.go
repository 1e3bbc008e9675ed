// Package recommend implements the recipe recommendation scoring engine:
// constraint extraction from free text, hard candidate filtering,
// multi-factor soft scoring, and ranked, explained results.
package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/savorly/v1/internal/domain/constraint"
)

// ruleCategory groups parser rules. Within a scalar category the first
// matching rule wins; list categories (includes, excludes) accumulate
// across every matching rule.
type ruleCategory string

const (
	catTime           ruleCategory = "time"
	catDiet           ruleCategory = "diet"
	catGlutenFree     ruleCategory = "gluten_free"
	catExpiringWindow ruleCategory = "expiring_window"
	catInclude        ruleCategory = "include"
	catExclude        ruleCategory = "exclude"
	catPriorityIng    ruleCategory = "prioritize_ingredient"
	catPriorityMacro  ruleCategory = "prioritize_macro"
	catMood           ruleCategory = "mood"
	catEnergy         ruleCategory = "energy"
)

// listCategories accumulate matches instead of claiming the category.
var listCategories = map[ruleCategory]bool{catInclude: true, catExclude: true}

// parserRule is one declarative (pattern, category, transform) entry.
type parserRule struct {
	category ruleCategory
	re       *regexp.Regexp
	apply    func(c *constraint.UserConstraints, matches [][]string)
}

// ingredient token splitter and noise words dropped from captures.
var (
	tokenSplit = regexp.MustCompile(`,|\s+and\s+|\s+or\s+|\s+with\s+`)

	noiseTokens = map[string]bool{
		"something": true, "everything": true, "anything": true,
		"a": true, "an": true, "the": true, "some": true, "my": true,
		"me": true, "up": true, "soon": true, "it": true, "them": true,
		"make": true, "recipe": true, "recipes": true, "food": true,
		"meal": true, "dinner": true, "lunch": true, "breakfast": true,
		"quick": true, "fast": true, "please": true,
	}
)

// parserRules is the ordered rule list applied once over the input.
// Ordering matters only within a category: more specific patterns come
// before generic ones.
var parserRules = []parserRule{
	// Time ceiling.
	{catTime, regexp.MustCompile(`under\s+(\d+)\s*(?:minutes?|mins?)`), setMaxTime},
	{catTime, regexp.MustCompile(`\b(\d+)\s*(?:minutes?|mins?)\b`), setMaxTime},
	{catTime, regexp.MustCompile(`\b(?:quick|fast)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		t := 20
		c.MaxTimeMinutes = &t
	}},

	// Diet tags. "gluten-free" is handled below as excludes instead.
	{catDiet, regexp.MustCompile(`\b(vegan|vegetarian|pescatarian|ketogenic|keto)\b`), func(c *constraint.UserConstraints, matches [][]string) {
		seen := map[string]bool{}
		for _, m := range matches {
			diet := m[1]
			if diet == "ketogenic" {
				diet = "keto"
			}
			if !seen[diet] {
				seen[diet] = true
				c.DietTypes = append(c.DietTypes, diet)
			}
		}
	}},
	{catGlutenFree, regexp.MustCompile(`\bgluten(?:[- ]free)?\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.ExcludeIngredients = append(c.ExcludeIngredients, "gluten", "wheat", "bread")
	}},

	// Expiring window and "use it up" prioritization.
	{catExpiringWindow, regexp.MustCompile(`expiring\s+in\s+(\d+)\s+days?`), func(c *constraint.UserConstraints, matches [][]string) {
		if n, err := strconv.Atoi(matches[0][1]); err == nil && n > 0 {
			c.ExpiringWindowDays = n
		}
	}},

	// Excluded ingredients. The capture class has no comma, so a phrase
	// like "no dairy, make with chicken" stops at the comma and leaves
	// the include phrase intact.
	{catExclude, regexp.MustCompile(`\b(?:no|don'?t\s+use|can'?t\s+have|cannot\s+have|allergic\s+to|dislike|exclude|without)\s+([a-z0-9&\s-]+?)(?:,|[?.!]|$|\s+(?:and\s+)?(?:make|recipe|cook|with|use|include|want|need|please)\b)`), func(c *constraint.UserConstraints, matches [][]string) {
		for _, m := range matches {
			c.ExcludeIngredients = append(c.ExcludeIngredients, splitIngredientTokens(m[1])...)
		}
	}},

	// Included ingredients, several phrasings.
	{catInclude, regexp.MustCompile(`(?:make\s+(?:something\s+|me\s+)?with|recipe\s+with|cook\s+with|what\s+can\s+i\s+make\s+with)\s+([a-z0-9,&\s-]+?)(?:\s+(?:and\s+)?(?:no|don'?t|without|allergic|exclude|dislike|please)\b|[?.!]|$)`), appendIncludes},
	{catInclude, regexp.MustCompile(`\b(?:use|include|want|need)\s+([a-z0-9,&\s-]+?)(?:\s+(?:please|recipe|to\s+make|for)\b|[?.!]|$)`), appendIncludes},
	{catInclude, regexp.MustCompile(`(?:^|\s)with\s+([a-z0-9,&\s-]+?)(?:\s+(?:and\s+)?(?:no|don'?t|without|allergic|exclude|dislike|please)\b|[?.!]|$)`), appendIncludes},

	// Prioritization hints.
	{catPriorityIng, regexp.MustCompile(`\bprotein\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.PrioritizeIngredient = "protein"
	}},
	{catPriorityIng, regexp.MustCompile(`\b(?:expiring|use\s+up|use\s+soon)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.PrioritizeIngredient = "expiring"
	}},
	{catPriorityMacro, regexp.MustCompile(`\bhigh[- ]?carbs?\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.PrioritizeMacro = constraint.MacroHighCarb
	}},
	{catPriorityMacro, regexp.MustCompile(`\blow[- ]?carbs?\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.PrioritizeMacro = constraint.MacroLowCarb
	}},

	// Mood and energy keywords.
	{catMood, regexp.MustCompile(`\b(?:comfort|cozy|hearty)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.Mood = constraint.MoodComfort
	}},
	{catMood, regexp.MustCompile(`\b(?:light|fresh|healthy)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.Mood = constraint.MoodLight
		c.ExcludeIngredients = append(c.ExcludeIngredients, "cream", "butter", "oil")
	}},
	{catMood, regexp.MustCompile(`\b(?:focus|post[- ]workout|muscle)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.Mood = constraint.MoodFocus
	}},
	{catEnergy, regexp.MustCompile(`\b(?:low\s+energy|tired|exhausted|sleepy)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.Energy = constraint.EnergyLow
	}},
	{catEnergy, regexp.MustCompile(`\b(?:high\s+energy|energy\s+boost|energizing|energising)\b`), func(c *constraint.UserConstraints, _ [][]string) {
		c.Energy = constraint.EnergyHigh
	}},
}

func setMaxTime(c *constraint.UserConstraints, matches [][]string) {
	if n, err := strconv.Atoi(matches[0][1]); err == nil && n > 0 {
		c.MaxTimeMinutes = &n
	}
}

func appendIncludes(c *constraint.UserConstraints, matches [][]string) {
	for _, m := range matches {
		c.IncludeIngredients = append(c.IncludeIngredients, splitIngredientTokens(m[1])...)
	}
}

// splitIngredientTokens breaks a captured phrase into clean ingredient
// tokens, stripping leading noise words and dropping empty or noise-only
// tokens.
func splitIngredientTokens(raw string) []string {
	var out []string
	for _, part := range tokenSplit.Split(raw, -1) {
		tok := strings.TrimSpace(part)
		for {
			first, rest, found := strings.Cut(tok, " ")
			if !found || !noiseTokens[first] {
				break
			}
			tok = strings.TrimSpace(rest)
		}
		if len(tok) < 2 || noiseTokens[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ParseConstraints extracts structured constraints from a free-text
// request. It is a total function: text that matches nothing yields a
// defaulted constraints record. Rules run once over the input in order;
// within a scalar category the first match wins.
func ParseConstraints(text string) constraint.UserConstraints {
	c := constraint.New()
	lower := strings.ToLower(text)

	claimed := map[ruleCategory]bool{}
	for _, r := range parserRules {
		if claimed[r.category] {
			continue
		}
		matches := r.re.FindAllStringSubmatch(lower, -1)
		if len(matches) == 0 {
			continue
		}
		r.apply(&c, matches)
		if !listCategories[r.category] {
			claimed[r.category] = true
		}
	}

	c.ExcludeIngredients = dedupe(c.ExcludeIngredients)
	c.IncludeIngredients = subtract(dedupe(c.IncludeIngredients), c.ExcludeIngredients)
	return c
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// subtract keeps the include and exclude sets disjoint; exclusion wins.
func subtract(tokens, removed []string) []string {
	if len(tokens) == 0 || len(removed) == 0 {
		return tokens
	}
	drop := map[string]bool{}
	for _, r := range removed {
		drop[r] = true
	}
	out := tokens[:0]
	for _, t := range tokens {
		if !drop[t] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
