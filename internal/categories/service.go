package categories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/db/models"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
	"github.com/cakpo-corneille/niasotac/pkg/slug"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PathSeparator joins category names into a breadcrumb path.
const PathSeparator = " > "

// Service exposes category tree operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	MoveCategory(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*CategoryDTO, error)
	ListCategories(ctx context.Context, level *int) ([]CategoryDTO, error)
	Tree(ctx context.Context) ([]TreeNodeDTO, error)
	Ancestors(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error)
	FullPath(ctx context.Context, id uuid.UUID) (string, error)
	DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name         string
	Description  string
	ImageURL     string
	ParentID     *uuid.UUID
	DisplayOrder int
	IsActive     bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name         *string
	Description  *string
	ImageURL     *string
	DisplayOrder *int
	IsActive     *bool
}

// service implements the category service.
type service struct {
	repo     *Repository
	dbClient *db.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService constructs a category service instance. The cache client is
// optional; reads fall through to the database when it is nil.
func NewService(repo *Repository, dbClient *db.Client, cache *redis.Client, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cache:    cache,
		cacheTTL: cacheTTL,
	}, nil
}

// CreateCategory inserts a new node under the requested parent. The slug is
// derived from the name and disambiguated with a numeric suffix.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	level := 0
	if input.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent category")
		}
		level = parent.Level + 1
	}

	categorySlug, err := s.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:           uuid.New(),
		Name:         input.Name,
		Slug:         categorySlug,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		ParentID:     input.ParentID,
		Level:        level,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	}

	if _, err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "uq_categories_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}

	s.invalidateCache(ctx)
	return NewCategoryDTO(category), nil
}

// UpdateCategory applies partial updates. Renames keep the existing slug so
// published links stay valid.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = *input.ImageURL
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}

	s.invalidateCache(ctx)
	return NewCategoryDTO(category), nil
}

// MoveCategory re-parents the node and recomputes cached levels for the whole
// moved subtree in one transaction. Moving a node under its own descendant is
// rejected.
func (s *service) MoveCategory(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	newLevel := 0
	if newParentID != nil {
		if *newParentID == id {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
		}
		parent, err := s.loadCategory(ctx, *newParentID)
		if err != nil {
			return nil, err
		}

		descendants, err := s.DescendantIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, descID := range descendants {
			if descID == parent.ID {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot move a category under its own descendant")
			}
		}
		newLevel = parent.Level + 1
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		category.ParentID = newParentID
		category.Level = newLevel
		if _, err := txRepo.Update(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: re-parent category")
		}
		return relevelChildren(ctx, txRepo, category.ID, newLevel+1)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "move category")
	}

	s.invalidateCache(ctx)
	return NewCategoryDTO(category), nil
}

// relevelChildren walks the subtree depth-first rewriting cached levels.
func relevelChildren(ctx context.Context, txRepo *Repository, parentID uuid.UUID, level int) error {
	children, err := txRepo.ListChildren(ctx, parentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list children")
	}
	for i := range children {
		child := &children[i]
		if child.Level != level {
			child.Level = level
			if _, err := txRepo.Update(ctx, child); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: relevel category")
			}
		}
		if err := relevelChildren(ctx, txRepo, child.ID, level+1); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCategory removes a leaf category that has no products.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count children")
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has child categories")
	}

	products, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}

	s.invalidateCache(ctx)
	return nil
}

// GetBySlug loads one category and decorates it with its full breadcrumb path.
func (s *service) GetBySlug(ctx context.Context, categorySlug string) (*CategoryDTO, error) {
	category, err := s.repo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	dto := NewCategoryDTO(category)
	path, err := s.FullPath(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	dto.FullPath = path
	return dto, nil
}

// ListCategories returns active categories, optionally filtered by tree level.
func (s *service) ListCategories(ctx context.Context, level *int) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx, level)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return NewCategoryDTOs(rows), nil
}

// Tree returns the nested active-category hierarchy. The result is cached
// because every storefront page requests it.
func (s *service) Tree(ctx context.Context) ([]TreeNodeDTO, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cache.CacheKey("categories", "tree"))
		if err == nil {
			var cached []TreeNodeDTO
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		}
	}

	rows, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	tree := buildTree(rows)

	if s.cache != nil {
		if raw, err := json.Marshal(tree); err == nil {
			_ = s.cache.Set(ctx, s.cache.CacheKey("categories", "tree"), string(raw), s.cacheTTL)
		}
	}
	return tree, nil
}

// buildTree assembles the adjacency rows into nested nodes. Children whose
// parent is missing from the active set are dropped rather than promoted.
// Rows arrive display-ordered, so appending preserves sibling order.
func buildTree(rows []models.Category) []TreeNodeDTO {
	nodes := make(map[uuid.UUID]*TreeNodeDTO, len(rows))
	byParent := make(map[uuid.UUID][]*TreeNodeDTO)
	for i := range rows {
		row := &rows[i]
		nodes[row.ID] = &TreeNodeDTO{
			ID:           row.ID,
			Name:         row.Name,
			Slug:         row.Slug,
			Level:        row.Level,
			DisplayOrder: row.DisplayOrder,
			Children:     []TreeNodeDTO{},
		}
	}
	for i := range rows {
		row := &rows[i]
		if row.ParentID != nil {
			byParent[*row.ParentID] = append(byParent[*row.ParentID], nodes[row.ID])
		}
	}

	var fill func(node *TreeNodeDTO)
	fill = func(node *TreeNodeDTO) {
		for _, child := range byParent[node.ID] {
			fill(child)
			node.Children = append(node.Children, *child)
		}
	}

	roots := []TreeNodeDTO{}
	for i := range rows {
		row := &rows[i]
		if row.ParentID != nil {
			continue
		}
		node := nodes[row.ID]
		fill(node)
		roots = append(roots, *node)
	}
	return roots
}

// Ancestors returns the chain from root to the node's direct parent.
func (s *service) Ancestors(ctx context.Context, id uuid.UUID) ([]CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	var chain []CategoryDTO
	current := category
	for current.ParentID != nil {
		parent, err := s.loadCategory(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append([]CategoryDTO{*NewCategoryDTO(parent)}, chain...)
		current = parent
	}
	return chain, nil
}

// FullPath renders the breadcrumb, e.g. "Ordinateurs > Portables > Gaming".
func (s *service) FullPath(ctx context.Context, id uuid.UUID) (string, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return "", err
	}
	ancestors, err := s.Ancestors(ctx, id)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(ancestors)+1)
	for _, ancestor := range ancestors {
		parts = append(parts, ancestor.Name)
	}
	parts = append(parts, category.Name)
	return strings.Join(parts, PathSeparator), nil
}

// DescendantIDs returns the ids of the node and every category beneath it.
func (s *service) DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}

	byParent := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.ParentID != nil {
			byParent[*row.ParentID] = append(byParent[*row.ParentID], row.ID)
		}
	}

	ids := []uuid.UUID{id}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range byParent[current] {
			ids = append(ids, childID)
			queue = append(queue, childID)
		}
	}
	return ids, nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return category, nil
}

func (s *service) uniqueSlug(ctx context.Context, name string) (string, error) {
	var slugErr error
	candidate := slug.Unique(name, func(candidate string) bool {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			slugErr = err
			return false
		}
		return exists
	})
	if slugErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, slugErr, "db: check slug")
	}
	return candidate, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidatePrefix(ctx, "categories")
}
