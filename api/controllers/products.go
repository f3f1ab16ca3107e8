package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/api/validators"
	productsvc "github.com/cakpo-corneille/niasotac/internal/products"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
)

// ListProducts serves the filtered, paginated catalog browse endpoint.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, page)
	}
}

// ProductDetail serves one product by slug, promotion pricing included.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		slug := chi.URLParam(r, "slug")
		if logg != nil {
			ctx = logg.WithProductSlug(ctx, slug)
		}

		product, err := svc.GetBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// showcaseHandler serves one of the fixed-size home page strips.
func showcaseHandler(logg *logger.Logger, load func(r *http.Request, limit int) ([]productsvc.ProductDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", productsvc.DefaultShowcaseLimit, 1, 24)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := load(r, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func FeaturedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return showcaseHandler(logg, func(r *http.Request, limit int) ([]productsvc.ProductDTO, error) {
		return svc.Featured(r.Context(), limit)
	})
}

func RecommendedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return showcaseHandler(logg, func(r *http.Request, limit int) ([]productsvc.ProductDTO, error) {
		return svc.Recommended(r.Context(), limit)
	})
}

func RecentProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return showcaseHandler(logg, func(r *http.Request, limit int) ([]productsvc.ProductDTO, error) {
		return svc.Recent(r.Context(), limit)
	})
}

func OnSaleProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return showcaseHandler(logg, func(r *http.Request, limit int) ([]productsvc.ProductDTO, error) {
		return svc.OnSale(r.Context(), limit)
	})
}

// ProductStats serves the catalog dashboard aggregates.
func ProductStats(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// TrackView records one product page view.
func TrackView(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := svc.TrackView(r.Context(), slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// TrackWhatsAppClick records one tap on the WhatsApp contact button.
func TrackWhatsAppClick(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := svc.TrackWhatsAppClick(r.Context(), slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// RefreshScores re-runs the merchandising heuristic over the catalog.
func RefreshScores(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := svc.RefreshScores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": updated})
	}
}

type createProductRequest struct {
	Name           string    `json:"name" validate:"required,min=1,max=300"`
	Brand          string    `json:"brand" validate:"max=100"`
	Description    string    `json:"description" validate:"max=10000"`
	Features       []string  `json:"features" validate:"max=50,dive,max=300"`
	CategoryID     uuid.UUID `json:"category_id" validate:"required"`
	Price          string    `json:"price" validate:"required"`
	CompareAtPrice *string   `json:"compare_at_price"`
	InStock        *bool     `json:"in_stock"`
	IsActive       *bool     `json:"is_active"`
}

func (p createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
	}

	var compareAt *decimal.Decimal
	if p.CompareAtPrice != nil {
		value, err := decimal.NewFromString(strings.TrimSpace(*p.CompareAtPrice))
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must be a number")
		}
		compareAt = &value
	}

	inStock := true
	if p.InStock != nil {
		inStock = *p.InStock
	}
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}

	return productsvc.CreateProductInput{
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		Features:       p.Features,
		CategoryID:     p.CategoryID,
		Price:          price,
		CompareAtPrice: compareAt,
		InStock:        inStock,
		IsActive:       active,
	}, nil
}

// CreateProduct handles product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1,max=300"`
	Brand          *string    `json:"brand" validate:"omitempty,max=100"`
	Description    *string    `json:"description" validate:"omitempty,max=10000"`
	Features       []string   `json:"features" validate:"omitempty,max=50,dive,max=300"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Price          *string    `json:"price"`
	CompareAtPrice *string    `json:"compare_at_price"`
	ClearCompareAt bool       `json:"clear_compare_at_price"`
	InStock        *bool      `json:"in_stock"`
	IsActive       *bool      `json:"is_active"`
}

// UpdateProduct handles partial product edits.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:           payload.Name,
			Brand:          payload.Brand,
			Description:    payload.Description,
			Features:       payload.Features,
			CategoryID:     payload.CategoryID,
			ClearCompareAt: payload.ClearCompareAt,
			InStock:        payload.InStock,
			IsActive:       payload.IsActive,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(strings.TrimSpace(*payload.Price))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number"))
				return
			}
			input.Price = &price
		}
		if payload.CompareAtPrice != nil {
			compareAt, err := decimal.NewFromString(strings.TrimSpace(*payload.CompareAtPrice))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must be a number"))
				return
			}
			input.CompareAtPrice = &compareAt
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product and its gallery.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type addImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	AltText      string `json:"alt_text" validate:"max=300"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

// AddProductImage appends a gallery entry.
func AddProductImage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		image, err := svc.AddImage(r.Context(), id, productsvc.AddImageInput{
			URL:          payload.URL,
			AltText:      payload.AltText,
			IsPrimary:    payload.IsPrimary,
			DisplayOrder: payload.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

// SetPrimaryImage flips which gallery entry is the cover.
func SetPrimaryImage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseUUIDParam(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetPrimaryImage(r.Context(), productID, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteProductImage removes a gallery entry.
func DeleteProductImage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseUUIDParam(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteImage(r.Context(), productID, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
