package scoring

import (
	"testing"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
)

func testConfig() config.CatalogConfig {
	return config.CatalogConfig{
		FeaturedThreshold:    60,
		RecommendedThreshold: 50,
		ViewWeight:           45,
		RecencyWeight:        30,
		StockWeight:          25,
		ViewSaturation:       500,
		RecencyWindow:        336 * time.Hour,
	}
}

func baseInput(now time.Time) Input {
	viewed := now.Add(-time.Hour)
	return Input{
		Product: &models.Product{InStock: true},
		Status: &models.ProductStatus{
			ViewCount:    250,
			LastViewedAt: &viewed,
		},
		Now: now,
	}
}

func TestExclusionBeatsEverything(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	in := baseInput(now)
	in.Status.ExcludeFromFeatured = true
	in.Status.ForceFeatured = true
	in.Status.ViewCount = 100000

	result := engine.Featured(in)
	if result.Classified || result.Score != 0 {
		t.Fatalf("expected (false, 0) for excluded product, got (%v, %v)", result.Classified, result.Score)
	}
}

func TestForceBeatsHeuristic(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	in := Input{
		Product: &models.Product{InStock: false},
		Status:  &models.ProductStatus{ForceFeatured: true},
		Now:     now,
	}
	result := engine.Featured(in)
	if !result.Classified || result.Score != 100 {
		t.Fatalf("expected (true, 100) for forced product, got (%v, %v)", result.Classified, result.Score)
	}
}

func TestInStockScoresStrictlyHigher(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	inStock := baseInput(now)
	outOfStock := baseInput(now)
	outOfStock.Product = &models.Product{InStock: false}

	a := engine.Featured(inStock)
	b := engine.Featured(outOfStock)
	if a.Score <= b.Score {
		t.Fatalf("in-stock score %v must be strictly greater than out-of-stock %v", a.Score, b.Score)
	}
}

func TestHeuristicHandlesEmptyStatus(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	result := engine.Featured(Input{
		Product: &models.Product{InStock: false},
		Status:  nil,
		Now:     now,
	})
	if result.Classified {
		t.Fatalf("expected unclassified for empty status")
	}
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score out of range: %v", result.Score)
	}
}

func TestViewContributionSaturates(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	atSaturation := baseInput(now)
	atSaturation.Status.ViewCount = 500

	beyond := baseInput(now)
	beyond.Status.ViewCount = 100000

	a := engine.Featured(atSaturation)
	b := engine.Featured(beyond)
	if a.Score != b.Score {
		t.Fatalf("expected saturated view contribution, got %v vs %v", a.Score, b.Score)
	}
}

func TestRecencyDecays(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	fresh := baseInput(now)

	stale := baseInput(now)
	old := now.Add(-400 * time.Hour)
	stale.Status.LastViewedAt = &old

	never := baseInput(now)
	never.Status.LastViewedAt = nil

	a := engine.Featured(fresh)
	b := engine.Featured(stale)
	c := engine.Featured(never)
	if a.Score <= b.Score {
		t.Fatalf("fresh view %v should outscore stale view %v", a.Score, b.Score)
	}
	if b.Score != c.Score {
		t.Fatalf("views older than the window should contribute the minimum: %v vs %v", b.Score, c.Score)
	}
}

func TestMaxedHeuristicReachesCeiling(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	in := baseInput(now)
	in.Status.ViewCount = 500
	viewedNow := now
	in.Status.LastViewedAt = &viewedNow

	result := engine.Featured(in)
	if result.Score != 100 {
		t.Fatalf("expected max heuristic to hit 100, got %v", result.Score)
	}
	if !result.Classified {
		t.Fatal("expected classification at max score")
	}
}

func TestRecommendedUsesOwnFlags(t *testing.T) {
	engine := NewEngine(testConfig())
	now := time.Now()

	in := baseInput(now)
	in.Status.ExcludeFromFeatured = true
	in.Status.ForceRecommended = true

	featured := engine.Featured(in)
	recommended := engine.Recommended(in)
	if featured.Classified {
		t.Fatal("featured should be excluded")
	}
	if !recommended.Classified || recommended.Score != 100 {
		t.Fatalf("recommended should be forced, got (%v, %v)", recommended.Classified, recommended.Score)
	}
}
