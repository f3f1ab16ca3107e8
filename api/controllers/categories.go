package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	categorysvc "github.com/cakpo-corneille/niasotac/internal/categories"
	productsvc "github.com/cakpo-corneille/niasotac/internal/products"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/pagination"
)

// ListCategories serves the flat category listing, optionally filtered by
// depth.
func ListCategories(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var level *int
		if raw := r.URL.Query().Get("level"); raw != "" {
			value, err := validators.ParseQueryInt(r, "level", 0, 0, 10)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			level = &value
		}

		categories, err := svc.ListCategories(r.Context(), level)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// CategoryTree serves the nested category hierarchy.
func CategoryTree(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := svc.Tree(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

// CategoryDetail serves one category by slug, breadcrumb included.
func CategoryDetail(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// CategoryProducts pages through the products of a category subtree.
func CategoryProducts(categories categorysvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCategorySlug(ctx, chi.URLParam(r, "slug"))
		}

		category, err := categories.GetBySlug(ctx, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id := category.ID
		input.CategoryID = &id

		page, err := products.ListProducts(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, page)
	}
}

type createCategoryRequest struct {
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	ImageURL     string     `json:"image_url" validate:"omitempty,url"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int        `json:"display_order" validate:"min=0"`
	IsActive     *bool      `json:"is_active"`
}

// CreateCategory handles category creation.
func CreateCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}
		category, err := svc.CreateCategory(r.Context(), categorysvc.CreateCategoryInput{
			Name:         payload.Name,
			Description:  payload.Description,
			ImageURL:     payload.ImageURL,
			ParentID:     payload.ParentID,
			DisplayOrder: payload.DisplayOrder,
			IsActive:     active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

type updateCategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateCategory handles partial category edits.
func UpdateCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), id, categorysvc.UpdateCategoryInput{
			Name:         payload.Name,
			Description:  payload.Description,
			ImageURL:     payload.ImageURL,
			DisplayOrder: payload.DisplayOrder,
			IsActive:     payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

type moveCategoryRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// MoveCategory re-parents a category subtree.
func MoveCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload moveCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.MoveCategory(r.Context(), id, payload.ParentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// DeleteCategory removes an empty leaf category.
func DeleteCategory(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// listInputFromQuery parses the shared product-listing query parameters.
func listInputFromQuery(r *http.Request) (productsvc.ListProductsInput, error) {
	var input productsvc.ListProductsInput

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return input, err
	}
	pageSize, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return input, err
	}
	input.Pagination = pagination.Params{Page: page, PageSize: pageSize}

	input.Filters.Brand = r.URL.Query().Get("brand")
	input.Filters.Query = r.URL.Query().Get("q")
	input.Filters.Ordering = r.URL.Query().Get("ordering")
	if !productsvc.ValidOrdering(input.Filters.Ordering) {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "unsupported ordering").
			WithDetails(map[string]string{"ordering": input.Filters.Ordering})
	}

	if input.Filters.InStock, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
		return input, err
	}
	if input.Filters.OnSale, err = validators.ParseQueryBool(r, "on_sale"); err != nil {
		return input, err
	}
	if input.Filters.PriceMin, err = validators.ParseQueryDecimal(r, "price_min"); err != nil {
		return input, err
	}
	if input.Filters.PriceMax, err = validators.ParseQueryDecimal(r, "price_max"); err != nil {
		return input, err
	}
	return input, nil
}
