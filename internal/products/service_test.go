package products

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cakpo-corneille/niasotac/internal/promotions"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubResolver struct {
	descendants map[uuid.UUID][]uuid.UUID
}

func (s *stubResolver) DescendantIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return s.descendants[id], nil
}

type stubPricer struct {
	quote *promotions.PriceQuote
}

func (s *stubPricer) Price(_ context.Context, product *models.Product) (*promotions.PriceQuote, error) {
	if s.quote != nil {
		return s.quote, nil
	}
	return &promotions.PriceQuote{
		OriginalPrice:  product.Price,
		DiscountAmount: decimal.Zero,
		FinalPrice:     product.Price,
	}, nil
}

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection keeps the in-memory database alive and serializes
	// concurrent writers.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  parent_id TEXT,
  level INTEGER NOT NULL DEFAULT 0,
  display_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  features TEXT,
  category_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  compare_at_price NUMERIC,
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_statuses (
  product_id TEXT PRIMARY KEY,
  view_count INTEGER NOT NULL DEFAULT 0,
  whatsapp_click_count INTEGER NOT NULL DEFAULT 0,
  last_viewed_at DATETIME,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_recommended INTEGER NOT NULL DEFAULT 0,
  featured_score NUMERIC NOT NULL DEFAULT 0,
  recommendation_score NUMERIC NOT NULL DEFAULT 0,
  force_featured INTEGER NOT NULL DEFAULT 0,
  force_recommended INTEGER NOT NULL DEFAULT 0,
  exclude_from_featured INTEGER NOT NULL DEFAULT 0,
  exclude_from_recommended INTEGER NOT NULL DEFAULT 0,
  scored_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  alt_text TEXT NOT NULL DEFAULT '',
  is_primary INTEGER NOT NULL DEFAULT 0,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newProductsService(t *testing.T, resolver *stubResolver, pricer Pricer) (Service, *gorm.DB) {
	t.Helper()
	conn := setupProductsTestDB(t)
	if resolver == nil {
		resolver = &stubResolver{descendants: map[uuid.UUID][]uuid.UUID{}}
	}
	cfg := config.CatalogConfig{
		FeaturedThreshold:    60,
		RecommendedThreshold: 50,
		ViewWeight:           45,
		RecencyWeight:        30,
		StockWeight:          25,
		ViewSaturation:       500,
		RecencyWindow:        336 * time.Hour,
		CacheTTL:             5 * time.Minute,
	}
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), cfg, resolver, pricer, nil)
	require.NoError(t, err)
	return svc, conn
}

func seedCategory(t *testing.T, conn *gorm.DB, name, slug string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, conn.Exec(
		`INSERT INTO categories (id, name, slug, level, is_active) VALUES (?, ?, ?, 0, 1)`,
		id, name, slug,
	).Error)
	return id
}

func TestCreateProduct_DerivesSlugAndSKUAndProvisionsStatus(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Ordinateurs", "ordinateurs")

	first, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Écran incurvé 27\"",
		Brand:      "Samsung",
		Features:   []string{"144 Hz", "QHD"},
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(185000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ecran-incurve-27", first.Slug)
	assert.True(t, len(first.SKU) > 4 && first.SKU[:4] == "NST-")

	var status models.ProductStatus
	require.NoError(t, conn.First(&status, "product_id = ?", first.ID).Error)
	assert.Equal(t, int64(0), status.ViewCount)
	assert.False(t, status.IsFeatured)

	second, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Écran incurvé 27\"",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(190000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ecran-incurve-27-2", second.Slug)
	assert.NotEqual(t, first.SKU, second.SKU)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Accessoires", "accessoires")

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{CategoryID: categoryID, Price: decimal.NewFromInt(10)}},
		{"negative price", CreateProductInput{Name: "Souris", CategoryID: categoryID, Price: decimal.NewFromInt(-5)}},
		{"missing category", CreateProductInput{Name: "Souris", Price: decimal.NewFromInt(10)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestUpdateProduct_KeepsSlugOnRename(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Réseau", "reseau")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Routeur WiFi 6",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(45000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	newName := "Routeur WiFi 6E"
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Routeur WiFi 6E", updated.Name)
	assert.Equal(t, "routeur-wifi-6", updated.Slug)
}

func TestDiscountPercentFloorsTheRatio(t *testing.T) {
	compare := decimal.NewFromInt(200000)
	product := &models.Product{
		Price:          decimal.NewFromInt(185000),
		CompareAtPrice: &compare,
	}
	if got := DiscountPercent(product); got != 7 {
		t.Fatalf("DiscountPercent = %d, want 7", got)
	}

	product.CompareAtPrice = nil
	if got := DiscountPercent(product); got != 0 {
		t.Fatalf("DiscountPercent without reference price = %d, want 0", got)
	}

	equal := decimal.NewFromInt(185000)
	product.CompareAtPrice = &equal
	if got := DiscountPercent(product); got != 0 {
		t.Fatalf("DiscountPercent with equal reference price = %d, want 0", got)
	}
}

func TestIsNewWindow(t *testing.T) {
	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	fresh := &models.Product{CreatedAt: now.Add(-29 * 24 * time.Hour)}
	stale := &models.Product{CreatedAt: now.Add(-31 * 24 * time.Hour)}
	assert.True(t, IsNew(fresh, now))
	assert.False(t, IsNew(stale, now))
}

func TestGetBySlug_ReturnsDetailWithPricing(t *testing.T) {
	pricer := &stubPricer{}
	svc, conn := newProductsService(t, nil, pricer)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Imprimantes", "imprimantes")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Imprimante laser",
		Brand:      "HP",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(120000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	_, err = svc.AddImage(ctx, created.ID, AddImageInput{URL: "https://cdn.niasotac.com/laser.jpg"})
	require.NoError(t, err)

	detail, err := svc.GetBySlug(ctx, "imprimante-laser")
	require.NoError(t, err)
	assert.Equal(t, "Imprimante laser", detail.Name)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "imprimantes", detail.Category.Slug)
	require.Len(t, detail.Images, 1)
	assert.True(t, detail.Images[0].IsPrimary)
	require.NotNil(t, detail.Pricing)
	assert.True(t, detail.Pricing.FinalPrice.Equal(decimal.NewFromInt(120000)))

	_, err = svc.GetBySlug(ctx, "does-not-exist")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestGetBySlug_HidesInactiveProducts(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Composants PC", "composants-pc")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Carte graphique",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(350000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, created.Slug)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListProducts_FiltersAndPaginates(t *testing.T) {
	parent := uuid.New()
	child := uuid.New()
	resolver := &stubResolver{descendants: map[uuid.UUID][]uuid.UUID{parent: {child}}}
	svc, conn := newProductsService(t, resolver, nil)
	ctx := context.Background()

	require.NoError(t, conn.Exec(
		`INSERT INTO categories (id, name, slug, level, is_active) VALUES (?, 'Ordinateurs', 'ordinateurs', 0, 1), (?, 'Portables', 'portables', 1, 1)`,
		parent, child,
	).Error)

	seed := func(name, brand string, categoryID uuid.UUID, price int64, compare *int64, inStock bool) {
		var compareAt *decimal.Decimal
		if compare != nil {
			d := decimal.NewFromInt(*compare)
			compareAt = &d
		}
		_, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:           name,
			Brand:          brand,
			CategoryID:     categoryID,
			Price:          decimal.NewFromInt(price),
			CompareAtPrice: compareAt,
			InStock:        inStock,
			IsActive:       true,
		})
		require.NoError(t, err)
	}

	compare := int64(200000)
	seed("PC portable gamer", "Asus", child, 185000, &compare, true)
	seed("PC de bureau", "Dell", parent, 250000, nil, true)
	seed("Station de travail", "Dell", parent, 690000, nil, false)

	t.Run("subtree filter", func(t *testing.T) {
		page, err := svc.ListProducts(ctx, ListProductsInput{CategoryID: &parent})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Count)
	})

	t.Run("brand filter", func(t *testing.T) {
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{Brand: "dell"}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Count)
	})

	t.Run("search", func(t *testing.T) {
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{Query: "gamer"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Count)
	})

	t.Run("in stock", func(t *testing.T) {
		inStock := true
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{InStock: &inStock}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Count)
	})

	t.Run("price range", func(t *testing.T) {
		min := decimal.NewFromInt(200000)
		max := decimal.NewFromInt(300000)
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{PriceMin: &min, PriceMax: &max}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Count)
	})

	t.Run("on sale", func(t *testing.T) {
		onSale := true
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{OnSale: &onSale}})
		require.NoError(t, err)
		require.Equal(t, int64(1), page.Count)
		results := page.Results.([]ProductDTO)
		assert.Equal(t, int64(7), results[0].DiscountPercent)
	})

	t.Run("price ordering", func(t *testing.T) {
		page, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{Ordering: "price"}})
		require.NoError(t, err)
		results := page.Results.([]ProductDTO)
		require.Len(t, results, 3)
		assert.Equal(t, "PC portable gamer", results[0].Name)
		assert.Equal(t, "Station de travail", results[2].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.ListProducts(ctx, ListProductsInput{
			Pagination: pagination.Params{Page: 1, PageSize: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Count)
		require.NotNil(t, page.Next)
		assert.Equal(t, 2, *page.Next)
		assert.Len(t, page.Results.([]ProductDTO), 2)
	})

	t.Run("bad ordering rejected", func(t *testing.T) {
		_, err := svc.ListProducts(ctx, ListProductsInput{Filters: ListFilters{Ordering: "popularity"}})
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	})
}

func TestTrackView_IncrementsAtomically(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Accessoires", "accessoires")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Clavier mécanique",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(35000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			errs <- svc.TrackView(ctx, created.Slug)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var status models.ProductStatus
	require.NoError(t, conn.First(&status, "product_id = ?", created.ID).Error)
	assert.Equal(t, int64(workers), status.ViewCount)
	assert.NotNil(t, status.LastViewedAt)

	err = svc.TrackView(ctx, "produit-inconnu")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestTrackWhatsAppClick(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Accessoires", "accessoires")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Casque audio",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(25000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.TrackWhatsAppClick(ctx, created.Slug))
	require.NoError(t, svc.TrackWhatsAppClick(ctx, created.Slug))

	var status models.ProductStatus
	require.NoError(t, conn.First(&status, "product_id = ?", created.ID).Error)
	assert.Equal(t, int64(2), status.WhatsAppClickCount)
	assert.Nil(t, status.LastViewedAt)

	err = svc.TrackWhatsAppClick(ctx, "produit-inconnu")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRefreshScores_AppliesRuleChain(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Ordinateurs", "ordinateurs")

	create := func(name string) uuid.UUID {
		dto, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:       name,
			CategoryID: categoryID,
			Price:      decimal.NewFromInt(100000),
			InStock:    true,
			IsActive:   true,
		})
		require.NoError(t, err)
		return dto.ID
	}

	forcedID := create("Produit force")
	excludedID := create("Produit exclu")
	quietID := create("Produit calme")
	popularID := create("Produit populaire")

	now := time.Now().UTC()
	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET force_featured = 1, force_recommended = 1 WHERE product_id = ?`, forcedID,
	).Error)
	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET force_featured = 1, exclude_from_featured = 1 WHERE product_id = ?`, excludedID,
	).Error)
	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET view_count = 500, last_viewed_at = ? WHERE product_id = ?`, now, popularID,
	).Error)

	updated, err := svc.RefreshScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, updated)

	load := func(id uuid.UUID) models.ProductStatus {
		var status models.ProductStatus
		require.NoError(t, conn.First(&status, "product_id = ?", id).Error)
		return status
	}

	forced := load(forcedID)
	assert.True(t, forced.IsFeatured)
	assert.True(t, forced.IsRecommended)
	assert.Equal(t, float64(100), forced.FeaturedScore)
	require.NotNil(t, forced.ScoredAt)

	excluded := load(excludedID)
	assert.False(t, excluded.IsFeatured)
	assert.Equal(t, float64(0), excluded.FeaturedScore)

	quiet := load(quietID)
	assert.False(t, quiet.IsFeatured)
	assert.False(t, quiet.IsRecommended)
	assert.InDelta(t, 25, quiet.FeaturedScore, 0.01)

	popular := load(popularID)
	assert.True(t, popular.IsFeatured)
	assert.True(t, popular.IsRecommended)
	assert.InDelta(t, 100, popular.FeaturedScore, 0.01)
}

func TestFeaturedAndOnSaleStrips(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Ordinateurs", "ordinateurs")

	compare := decimal.NewFromInt(200000)
	discounted, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:           "PC promo",
		CategoryID:     categoryID,
		Price:          decimal.NewFromInt(185000),
		CompareAtPrice: &compare,
		InStock:        true,
		IsActive:       true,
	})
	require.NoError(t, err)

	plain, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "PC standard",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(250000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET is_featured = 1, featured_score = 80 WHERE product_id = ?`, plain.ID,
	).Error)
	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET is_featured = 1, featured_score = 95 WHERE product_id = ?`, discounted.ID,
	).Error)

	featured, err := svc.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "PC promo", featured[0].Name)

	onSale, err := svc.OnSale(ctx, 0)
	require.NoError(t, err)
	require.Len(t, onSale, 1)
	assert.Equal(t, "PC promo", onSale[0].Name)
	assert.True(t, onSale[0].HasDiscount)
}

func TestStats(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Ordinateurs", "ordinateurs")

	compare := decimal.NewFromInt(60000)
	inStock, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:           "Disque SSD",
		CategoryID:     categoryID,
		Price:          decimal.NewFromInt(45000),
		CompareAtPrice: &compare,
		InStock:        true,
		IsActive:       true,
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Disque HDD",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(30000),
		InStock:    false,
		IsActive:   true,
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.TrackView(ctx, inStock.Slug))
	}
	require.NoError(t, svc.TrackWhatsAppClick(ctx, inStock.Slug))
	require.NoError(t, conn.Exec(
		`UPDATE product_statuses SET is_featured = 1 WHERE product_id = ?`, inStock.ID,
	).Error)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.InStock)
	assert.Equal(t, int64(3), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalWhatsAppClicks)
	assert.Equal(t, int64(1), stats.FeaturedCount)
	assert.Equal(t, int64(1), stats.OnSaleCount)
}

func TestGallery_SinglePrimaryInvariant(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Accessoires", "accessoires")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Webcam HD",
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(28000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	countPrimary := func() int64 {
		var count int64
		require.NoError(t, conn.Model(&models.ProductImage{}).
			Where("product_id = ? AND is_primary = ?", created.ID, true).
			Count(&count).Error)
		return count
	}

	first, err := svc.AddImage(ctx, created.ID, AddImageInput{URL: "https://cdn.niasotac.com/webcam-1.jpg"})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary, "first image becomes primary")
	assert.Equal(t, int64(1), countPrimary())

	second, err := svc.AddImage(ctx, created.ID, AddImageInput{
		URL:          "https://cdn.niasotac.com/webcam-2.jpg",
		DisplayOrder: 1,
	})
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)
	assert.Equal(t, int64(1), countPrimary())

	third, err := svc.AddImage(ctx, created.ID, AddImageInput{
		URL:          "https://cdn.niasotac.com/webcam-3.jpg",
		IsPrimary:    true,
		DisplayOrder: 2,
	})
	require.NoError(t, err)
	assert.True(t, third.IsPrimary, "explicit primary demotes the current one")
	assert.Equal(t, int64(1), countPrimary())

	require.NoError(t, svc.SetPrimaryImage(ctx, created.ID, second.ID))
	assert.Equal(t, int64(1), countPrimary())
	var promoted models.ProductImage
	require.NoError(t, conn.First(&promoted, "id = ?", second.ID).Error)
	assert.True(t, promoted.IsPrimary)

	require.NoError(t, svc.DeleteImage(ctx, created.ID, second.ID))
	assert.Equal(t, int64(1), countPrimary(), "deleting the primary promotes the next image")

	err = svc.SetPrimaryImage(ctx, created.ID, uuid.New())
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestFeaturesRoundTripThroughTextArray(t *testing.T) {
	svc, conn := newProductsService(t, nil, nil)
	ctx := context.Background()
	categoryID := seedCategory(t, conn, "Composants PC", "composants-pc")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Processeur 8 coeurs",
		Features:   []string{"8 coeurs", "16 threads"},
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(180000),
		InStock:    true,
		IsActive:   true,
	})
	require.NoError(t, err)

	var row models.Product
	require.NoError(t, conn.First(&row, "id = ?", created.ID).Error)
	assert.Equal(t, pq.StringArray{"8 coeurs", "16 threads"}, row.Features)
}
