package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geosynthix/catalog-backend/api/controllers"
	"github.com/geosynthix/catalog-backend/api/middleware"
	"github.com/geosynthix/catalog-backend/internal/documents"
	"github.com/geosynthix/catalog-backend/internal/inquiries"
	"github.com/geosynthix/catalog-backend/internal/natures"
	"github.com/geosynthix/catalog-backend/internal/plants"
	"github.com/geosynthix/catalog-backend/internal/products"
	"github.com/geosynthix/catalog-backend/internal/quotes"
	"github.com/geosynthix/catalog-backend/pkg/config"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/metrics"
	"github.com/geosynthix/catalog-backend/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	DBPinger     controllers.Pinger
	RedisClient  *redis.Client
	GCSPinger    controllers.Pinger
	PubSubPinger controllers.Pinger

	Products  products.Service
	Plants    plants.Service
	Natures   natures.Service
	Documents documents.Service
	Inquiries inquiries.Service
	Quotes    quotes.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	inquiryPolicy := middleware.NewSubmitRateLimitPolicy(
		"inquiry",
		cfg.RateLimit.InquiryWindow,
		cfg.RateLimit.InquiryIPLimit,
	)
	quotePolicy := middleware.NewSubmitRateLimitPolicy(
		"quote",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient, deps.GCSPinger, deps.PubSubPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Products, cfg.Uploads, logg))
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{idOrSlug}", controllers.GetProduct(deps.Products, logg))
			r.Patch("/{id}", controllers.UpdateProduct(deps.Products, cfg.Uploads, logg))
			r.Delete("/{id}", controllers.SoftDeleteProduct(deps.Products, logg))
			r.Delete("/{id}/permanent", controllers.PermanentDeleteProduct(deps.Products, logg))
			r.Post("/{id}/toggle-status", controllers.ToggleProductStatus(deps.Products, logg))
		})

		r.Route("/plants", func(r chi.Router) {
			r.Post("/", controllers.CreatePlant(deps.Plants, logg))
			r.Get("/", controllers.ListPlants(deps.Plants, logg))
			r.Get("/{idOrSlug}", controllers.GetPlant(deps.Plants, logg))
			r.Patch("/{id}", controllers.UpdatePlant(deps.Plants, logg))
			r.Delete("/{id}", controllers.SoftDeletePlant(deps.Plants, logg))
			r.Post("/{id}/toggle-status", controllers.TogglePlantStatus(deps.Plants, logg))
		})

		r.Route("/natures", func(r chi.Router) {
			r.Post("/", controllers.CreateNature(deps.Natures, cfg.Uploads, logg))
			r.Get("/", controllers.ListNatures(deps.Natures, logg))
			r.Get("/{idOrSlug}", controllers.GetNature(deps.Natures, logg))
			r.Patch("/{id}", controllers.UpdateNature(deps.Natures, cfg.Uploads, logg))
			r.Delete("/{id}", controllers.SoftDeleteNature(deps.Natures, logg))
			r.Post("/{id}/toggle-status", controllers.ToggleNatureStatus(deps.Natures, logg))
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", controllers.CreateDocument(deps.Documents, cfg.Uploads, logg))
			r.Get("/", controllers.ListDocuments(deps.Documents, logg))
			r.Get("/{id}", controllers.GetDocument(deps.Documents, logg))
			r.Delete("/{id}", controllers.DeleteDocument(deps.Documents, logg))
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.With(middleware.SubmitRateLimit(inquiryPolicy, deps.RedisClient, logg)).
				Post("/", controllers.SubmitInquiry(deps.Inquiries, logg))
			r.Get("/", controllers.ListInquiries(deps.Inquiries, logg))
			r.Get("/{id}", controllers.GetInquiry(deps.Inquiries, logg))
			r.Patch("/{id}/status", controllers.UpdateInquiryStatus(deps.Inquiries, logg))
			r.Post("/{id}/replies", controllers.ReplyToInquiry(deps.Inquiries, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.With(middleware.SubmitRateLimit(quotePolicy, deps.RedisClient, logg)).
				Post("/", controllers.SubmitQuote(deps.Quotes, logg))
			r.Get("/", controllers.ListQuotes(deps.Quotes, logg))
			r.Get("/{id}", controllers.GetQuote(deps.Quotes, logg))
			r.Patch("/{id}/status", controllers.UpdateQuoteStatus(deps.Quotes, logg))
			r.Post("/{id}/replies", controllers.ReplyToQuote(deps.Quotes, logg))
		})
	})

	return r
}
