// Package scoring computes the featured and recommended classifications for
// catalog products. Evaluation is a fixed rule chain: exclusion overrides
// force, force overrides the heuristic. The functions are pure; persisting
// results is the caller's concern.
package scoring

import (
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
)

// Result is the outcome of one classification.
type Result struct {
	Classified bool
	Score      float64
}

// Input carries everything one evaluation needs. Status may be nil for a
// product that never accrued engagement; it is treated as all-zero.
type Input struct {
	Product *models.Product
	Status  *models.ProductStatus
	Now     time.Time
}

// flags extracts the override booleans relevant to one classification.
type flags struct {
	exclude   bool
	force     bool
	threshold float64
}

// rule inspects the input and either settles the classification or defers to
// the next rule in the chain.
type rule func(in Input, f flags) (Result, bool)

// Engine evaluates the rule chain with the configured weights.
type Engine struct {
	cfg   config.CatalogConfig
	rules []rule
}

// NewEngine builds a scoring engine from the catalog tunables.
func NewEngine(cfg config.CatalogConfig) *Engine {
	e := &Engine{cfg: cfg}
	e.rules = []rule{
		exclusionRule,
		forceRule,
		e.heuristicRule,
	}
	return e
}

// Featured evaluates the featured classification.
func (e *Engine) Featured(in Input) Result {
	return e.evaluate(in, flags{
		exclude:   in.Status != nil && in.Status.ExcludeFromFeatured,
		force:     in.Status != nil && in.Status.ForceFeatured,
		threshold: e.cfg.FeaturedThreshold,
	})
}

// Recommended evaluates the recommended classification.
func (e *Engine) Recommended(in Input) Result {
	return e.evaluate(in, flags{
		exclude:   in.Status != nil && in.Status.ExcludeFromRecommend,
		force:     in.Status != nil && in.Status.ForceRecommended,
		threshold: e.cfg.RecommendedThreshold,
	})
}

func (e *Engine) evaluate(in Input, f flags) Result {
	for _, r := range e.rules {
		if result, done := r(in, f); done {
			return result
		}
	}
	return Result{}
}

// exclusionRule settles excluded products immediately.
func exclusionRule(_ Input, f flags) (Result, bool) {
	if f.exclude {
		return Result{Classified: false, Score: 0}, true
	}
	return Result{}, false
}

// forceRule settles manually pinned products.
func forceRule(_ Input, f flags) (Result, bool) {
	if f.force {
		return Result{Classified: true, Score: 100}, true
	}
	return Result{}, false
}

// heuristicRule blends views, viewing recency, and stock into a 0-100 score.
// It always settles; it is the chain's last rule.
func (e *Engine) heuristicRule(in Input, f flags) (Result, bool) {
	score := e.viewScore(in) + e.recencyScore(in) + e.stockScore(in)
	score = clamp(score, 0, 100)
	return Result{Classified: score > f.threshold, Score: score}, true
}

// viewScore grows capped-linear with view count so a handful of viral
// products cannot drown everything else.
func (e *Engine) viewScore(in Input) float64 {
	if in.Status == nil || e.cfg.ViewSaturation <= 0 {
		return 0
	}
	views := in.Status.ViewCount
	if views < 0 {
		views = 0
	}
	if views > e.cfg.ViewSaturation {
		views = e.cfg.ViewSaturation
	}
	return float64(views) / float64(e.cfg.ViewSaturation) * e.cfg.ViewWeight
}

// recencyScore decays linearly across the configured window. A product that
// was never viewed contributes the minimum.
func (e *Engine) recencyScore(in Input) float64 {
	if in.Status == nil || in.Status.LastViewedAt == nil || e.cfg.RecencyWindow <= 0 {
		return 0
	}
	age := in.Now.Sub(*in.Status.LastViewedAt)
	if age < 0 {
		age = 0
	}
	if age >= e.cfg.RecencyWindow {
		return 0
	}
	remaining := 1 - float64(age)/float64(e.cfg.RecencyWindow)
	return remaining * e.cfg.RecencyWeight
}

// stockScore rewards being purchasable. An out-of-stock product always scores
// strictly below its in-stock twin.
func (e *Engine) stockScore(in Input) float64 {
	if in.Product != nil && in.Product.InStock {
		return e.cfg.StockWeight
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
