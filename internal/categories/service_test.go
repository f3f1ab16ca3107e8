package categories

import (
	"context"
	"testing"

	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
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
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  features TEXT,
  category_id TEXT NOT NULL,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(categories).Error)
	require.NoError(t, conn.Exec(products).Error)
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCategoriesTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), nil, 0)
	require.NoError(t, err)
	return svc, conn
}

func mustCreate(t *testing.T, svc Service, name string, parentID *uuid.UUID) *CategoryDTO {
	t.Helper()
	dto, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:     name,
		ParentID: parentID,
		IsActive: true,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateCategory_LevelsAndSlugs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Ordinateurs", nil)
	assert.Equal(t, 0, root.Level)
	assert.Equal(t, "ordinateurs", root.Slug)

	child := mustCreate(t, svc, "Portables", &root.ID)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, root.ID, *child.ParentID)

	// same name gets a numeric suffix
	dup, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Ordinateurs", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "ordinateurs-2", dup.Slug)
}

func TestCreateCategory_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	missing := uuid.New()
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Orphan", ParentID: &missing})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestFullPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Ordinateurs", nil)
	mid := mustCreate(t, svc, "Portables", &root.ID)
	leaf := mustCreate(t, svc, "Gaming", &mid.ID)

	path, err := svc.FullPath(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ordinateurs > Portables > Gaming", path)

	ancestors, err := svc.Ancestors(ctx, leaf.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "Ordinateurs", ancestors[0].Name)
	assert.Equal(t, "Portables", ancestors[1].Name)
}

func TestTree_NestsChildren(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Composants PC", nil)
	mustCreate(t, svc, "Processeurs", &root.ID)
	mustCreate(t, svc, "Cartes graphiques", &root.ID)
	mustCreate(t, svc, "Réseau", nil)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	var composants *TreeNodeDTO
	for i := range tree {
		if tree[i].Slug == "composants-pc" {
			composants = &tree[i]
		}
	}
	require.NotNil(t, composants)
	assert.Len(t, composants.Children, 2)
	assert.Empty(t, composants.Children[0].Children)
}

func TestMoveCategory_RelevelsSubtree(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rootA := mustCreate(t, svc, "Accessoires", nil)
	rootB := mustCreate(t, svc, "Ordinateurs", nil)
	mid := mustCreate(t, svc, "Claviers", &rootA.ID)
	leaf := mustCreate(t, svc, "Claviers gamer", &mid.ID)

	moved, err := svc.MoveCategory(ctx, mid.ID, &rootB.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.Level)

	path, err := svc.FullPath(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ordinateurs > Claviers > Claviers gamer", path)

	descendants, err := svc.DescendantIDs(ctx, rootB.ID)
	require.NoError(t, err)
	assert.Len(t, descendants, 3)
}

func TestMoveCategory_RejectsCycles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Ordinateurs", nil)
	child := mustCreate(t, svc, "Portables", &root.ID)

	_, err := svc.MoveCategory(ctx, root.ID, &child.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.MoveCategory(ctx, root.ID, &root.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestMoveCategory_ToRoot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Ordinateurs", nil)
	child := mustCreate(t, svc, "Portables", &root.ID)

	moved, err := svc.MoveCategory(ctx, child.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Level)
	assert.Nil(t, moved.ParentID)
}

func TestDeleteCategory_Restrictions(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Imprimantes", nil)
	child := mustCreate(t, svc, "Laser", &root.ID)

	err := svc.DeleteCategory(ctx, root.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Imprimante Laser HP",
		Slug:       "imprimante-laser-hp",
		SKU:        "NST-TEST0001",
		CategoryID: child.ID,
		Price:      decimal.NewFromInt(85000),
		InStock:    true,
		IsActive:   true,
	}
	require.NoError(t, conn.Create(product).Error)

	err = svc.DeleteCategory(ctx, child.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	require.NoError(t, conn.Delete(product).Error)
	require.NoError(t, svc.DeleteCategory(ctx, child.ID))
	require.NoError(t, svc.DeleteCategory(ctx, root.ID))
}

func TestGetBySlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Réseau", nil)
	child := mustCreate(t, svc, "Routeurs", &root.ID)

	found, err := svc.GetBySlug(ctx, "routeurs")
	require.NoError(t, err)
	assert.Equal(t, child.ID, found.ID)
	assert.Equal(t, "Réseau > Routeurs", found.FullPath)

	_, err = svc.GetBySlug(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListCategories_LevelFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Ordinateurs", nil)
	mustCreate(t, svc, "Portables", &root.ID)

	level := 0
	roots, err := svc.ListCategories(ctx, &level)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "ordinateurs", roots[0].Slug)

	all, err := svc.ListCategories(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
