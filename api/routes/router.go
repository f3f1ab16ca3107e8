package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cakpo-corneille/niasotac/api/controllers"
	"github.com/cakpo-corneille/niasotac/api/middleware"
	categorysvc "github.com/cakpo-corneille/niasotac/internal/categories"
	newslettersvc "github.com/cakpo-corneille/niasotac/internal/newsletter"
	offeringsvc "github.com/cakpo-corneille/niasotac/internal/offerings"
	productsvc "github.com/cakpo-corneille/niasotac/internal/products"
	promotionsvc "github.com/cakpo-corneille/niasotac/internal/promotions"
	settingsvc "github.com/cakpo-corneille/niasotac/internal/settings"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/metrics"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Categories categorysvc.Service
	Products   productsvc.Service
	Promotions promotionsvc.Service
	Offerings  offeringsvc.Service
	Settings   settingsvc.Service
	Newsletter newslettersvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient controllers.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Categories, logg))
			r.Get("/tree", controllers.CategoryTree(svcs.Categories, logg))
			r.Get("/{slug}", controllers.CategoryDetail(svcs.Categories, logg))
			r.Get("/{slug}/products", controllers.CategoryProducts(svcs.Categories, svcs.Products, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/featured", controllers.FeaturedProducts(svcs.Products, logg))
			r.Get("/recommended", controllers.RecommendedProducts(svcs.Products, logg))
			r.Get("/recent", controllers.RecentProducts(svcs.Products, logg))
			r.Get("/on-sale", controllers.OnSaleProducts(svcs.Products, logg))
			r.Get("/stats", controllers.ProductStats(svcs.Products, logg))
			r.Get("/{slug}", controllers.ProductDetail(svcs.Products, logg))
			r.Post("/{slug}/track-view", controllers.TrackView(svcs.Products, logg))
			r.Post("/{slug}/track-click", controllers.TrackWhatsAppClick(svcs.Products, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListOfferings(svcs.Offerings, logg))
			r.Get("/{slug}", controllers.OfferingDetail(svcs.Offerings, logg))
		})

		r.Get("/promotions", controllers.ListPromotions(svcs.Promotions, logg))
		r.Get("/settings", controllers.SiteSettings(svcs.Settings, logg))

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", controllers.NewsletterSubscribe(svcs.Newsletter, logg))
			r.Get("/confirm", controllers.NewsletterConfirm(svcs.Newsletter, logg))
			r.Get("/unsubscribe", controllers.NewsletterUnsubscribe(svcs.Newsletter, logg))
		})
	})

	// Back office routes. Deployments front these with network rules; the app
	// itself ships no account system.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
			r.Patch("/{categoryId}", controllers.UpdateCategory(svcs.Categories, logg))
			r.Post("/{categoryId}/move", controllers.MoveCategory(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(svcs.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Post("/refresh-scores", controllers.RefreshScores(svcs.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
			r.Post("/{productId}/images", controllers.AddProductImage(svcs.Products, logg))
			r.Post("/{productId}/images/{imageId}/primary", controllers.SetPrimaryImage(svcs.Products, logg))
			r.Delete("/{productId}/images/{imageId}", controllers.DeleteProductImage(svcs.Products, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Post("/", controllers.CreatePromotion(svcs.Promotions, logg))
			r.Patch("/{promotionId}", controllers.UpdatePromotion(svcs.Promotions, logg))
			r.Delete("/{promotionId}", controllers.DeletePromotion(svcs.Promotions, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Post("/", controllers.CreateOffering(svcs.Offerings, logg))
			r.Patch("/{offeringId}", controllers.UpdateOffering(svcs.Offerings, logg))
			r.Delete("/{offeringId}", controllers.DeleteOffering(svcs.Offerings, logg))
		})

		r.Patch("/settings", controllers.UpdateSiteSettings(svcs.Settings, logg))
		r.Get("/newsletter/counts", controllers.NewsletterCounts(svcs.Newsletter, logg))
	})

	return r
}
