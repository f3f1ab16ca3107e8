package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	"github.com/cakpo-corneille/niasotac/pkg/enums"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubChain struct {
	ancestors map[uuid.UUID][]uuid.UUID
}

func (s *stubChain) AncestorIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return s.ancestors[id], nil
}

func setupPromotionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	promotions := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  scope TEXT NOT NULL,
  category_id TEXT,
  product_id TEXT,
  discount_type TEXT NOT NULL,
  discount_value TEXT NOT NULL,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(promotions).Error)
	return conn
}

var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func newPromotionsService(t *testing.T, chain *stubChain) (Service, *gorm.DB) {
	t.Helper()
	conn := setupPromotionsTestDB(t)
	if chain == nil {
		chain = &stubChain{ancestors: map[uuid.UUID][]uuid.UUID{}}
	}
	svc, err := NewService(NewRepository(conn), chain, func() time.Time { return testNow })
	require.NoError(t, err)
	return svc, conn
}

func testProduct(categoryID uuid.UUID, price int64) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(price),
	}
}

func livePromotion(scope enums.PromotionScope, dt enums.DiscountType, value int64) CreatePromotionInput {
	return CreatePromotionInput{
		Name:          "Promo",
		Scope:         scope,
		DiscountType:  dt,
		DiscountValue: decimal.NewFromInt(value),
		StartsAt:      testNow.Add(-24 * time.Hour),
		EndsAt:        testNow.Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestCreatePromotion_Validation(t *testing.T) {
	svc, _ := newPromotionsService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreatePromotionInput
	}{
		{"empty name", func() CreatePromotionInput {
			in := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 10)
			in.Name = "  "
			return in
		}()},
		{"category scope without target", livePromotion(enums.PromotionScopeCategory, enums.DiscountTypePercentage, 10)},
		{"product scope without target", livePromotion(enums.PromotionScopeProduct, enums.DiscountTypeFixed, 500)},
		{"global scope with target", func() CreatePromotionInput {
			in := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 10)
			id := uuid.New()
			in.ProductID = &id
			return in
		}()},
		{"percentage above 100", livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 150)},
		{"zero discount", livePromotion(enums.PromotionScopeAll, enums.DiscountTypeFixed, 0)},
		{"inverted window", func() CreatePromotionInput {
			in := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 10)
			in.StartsAt, in.EndsAt = in.EndsAt, in.StartsAt
			return in
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePromotion(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestApplicable_ScopeAndWindow(t *testing.T) {
	rootID := uuid.New()
	leafID := uuid.New()
	chain := &stubChain{ancestors: map[uuid.UUID][]uuid.UUID{
		leafID: {rootID},
	}}
	svc, _ := newPromotionsService(t, chain)
	ctx := context.Background()

	product := testProduct(leafID, 100000)

	// global, live
	_, err := svc.CreatePromotion(ctx, livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 5))
	require.NoError(t, err)

	// ancestor category
	catPromo := livePromotion(enums.PromotionScopeCategory, enums.DiscountTypePercentage, 10)
	catPromo.CategoryID = &rootID
	_, err = svc.CreatePromotion(ctx, catPromo)
	require.NoError(t, err)

	// direct product
	prodPromo := livePromotion(enums.PromotionScopeProduct, enums.DiscountTypeFixed, 2000)
	prodPromo.ProductID = &product.ID
	_, err = svc.CreatePromotion(ctx, prodPromo)
	require.NoError(t, err)

	// expired
	expired := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 50)
	expired.StartsAt = testNow.Add(-48 * time.Hour)
	expired.EndsAt = testNow.Add(-24 * time.Hour)
	_, err = svc.CreatePromotion(ctx, expired)
	require.NoError(t, err)

	// inactive
	inactive := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 50)
	inactive.IsActive = false
	_, err = svc.CreatePromotion(ctx, inactive)
	require.NoError(t, err)

	// other category
	other := livePromotion(enums.PromotionScopeCategory, enums.DiscountTypePercentage, 50)
	otherID := uuid.New()
	other.CategoryID = &otherID
	_, err = svc.CreatePromotion(ctx, other)
	require.NoError(t, err)

	applicable, err := svc.Applicable(ctx, product)
	require.NoError(t, err)
	assert.Len(t, applicable, 3)
}

func TestBest_PicksLargestDiscount(t *testing.T) {
	categoryID := uuid.New()
	svc, _ := newPromotionsService(t, nil)
	ctx := context.Background()

	product := testProduct(categoryID, 100000)

	// 5% of 100000 = 5000
	_, err := svc.CreatePromotion(ctx, livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 5))
	require.NoError(t, err)

	// fixed 8000 wins
	winner := livePromotion(enums.PromotionScopeProduct, enums.DiscountTypeFixed, 8000)
	winner.Name = "Vente flash"
	winner.ProductID = &product.ID
	created, err := svc.CreatePromotion(ctx, winner)
	require.NoError(t, err)

	best, err := svc.Best(ctx, product)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, created.ID, best.ID)
}

func TestBest_TieBreakIsDeterministic(t *testing.T) {
	categoryID := uuid.New()
	svc, _ := newPromotionsService(t, nil)
	ctx := context.Background()

	product := testProduct(categoryID, 100000)

	// both yield 10000; earlier start wins
	later := livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 10)
	_, err := svc.CreatePromotion(ctx, later)
	require.NoError(t, err)

	earlier := livePromotion(enums.PromotionScopeAll, enums.DiscountTypeFixed, 10000)
	earlier.StartsAt = testNow.Add(-72 * time.Hour)
	earlierDTO, err := svc.CreatePromotion(ctx, earlier)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		best, err := svc.Best(ctx, product)
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, earlierDTO.ID, best.ID)
	}
}

func TestBest_ReturnsNilWhenNoneApply(t *testing.T) {
	svc, _ := newPromotionsService(t, nil)
	ctx := context.Background()

	product := testProduct(uuid.New(), 50000)
	best, err := svc.Best(ctx, product)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestPrice_PercentageFloorsAndFixedCaps(t *testing.T) {
	categoryID := uuid.New()
	ctx := context.Background()

	t.Run("percentage floors to whole FCFA", func(t *testing.T) {
		svc, _ := newPromotionsService(t, nil)
		product := testProduct(categoryID, 185333)
		// 7% of 185333 = 12973.31 -> floors to 12973
		_, err := svc.CreatePromotion(ctx, livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 7))
		require.NoError(t, err)

		quote, err := svc.Price(ctx, product)
		require.NoError(t, err)
		assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(12973)),
			"got discount %s", quote.DiscountAmount)
		assert.True(t, quote.FinalPrice.Equal(decimal.NewFromInt(172360)),
			"got final %s", quote.FinalPrice)
	})

	t.Run("fixed discount never exceeds price", func(t *testing.T) {
		svc, _ := newPromotionsService(t, nil)
		product := testProduct(categoryID, 3000)
		_, err := svc.CreatePromotion(ctx, livePromotion(enums.PromotionScopeAll, enums.DiscountTypeFixed, 5000))
		require.NoError(t, err)

		quote, err := svc.Price(ctx, product)
		require.NoError(t, err)
		assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(3000)))
		assert.True(t, quote.FinalPrice.IsZero())
	})

	t.Run("no promotion leaves price unchanged", func(t *testing.T) {
		svc, _ := newPromotionsService(t, nil)
		product := testProduct(categoryID, 75000)

		quote, err := svc.Price(ctx, product)
		require.NoError(t, err)
		assert.True(t, quote.DiscountAmount.IsZero())
		assert.True(t, quote.FinalPrice.Equal(product.Price))
		assert.Nil(t, quote.Promotion)
	})
}

func TestUpdateAndDeletePromotion(t *testing.T) {
	svc, _ := newPromotionsService(t, nil)
	ctx := context.Background()

	created, err := svc.CreatePromotion(ctx, livePromotion(enums.PromotionScopeAll, enums.DiscountTypePercentage, 10))
	require.NoError(t, err)

	active := false
	updated, err := svc.UpdatePromotion(ctx, created.ID, UpdatePromotionInput{IsActive: &active})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	badValue := decimal.NewFromInt(200)
	_, err = svc.UpdatePromotion(ctx, created.ID, UpdatePromotionInput{DiscountValue: &badValue})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeletePromotion(ctx, created.ID))
	err = svc.DeletePromotion(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
