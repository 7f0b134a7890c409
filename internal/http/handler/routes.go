package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"homecare/internal/http/middleware"
	"homecare/internal/service"
	"homecare/internal/web"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB           *sql.DB
	Catalog      service.CatalogService
	Bookings     service.BookingService
	Auth         service.AuthService
	Reviews      service.ReviewService
	Attachments  service.AttachmentService
	Pages        *web.Renderer
	Log          *zap.Logger
	SecureCookie bool
	// AuthLimit throttles sign up and sign in. Nil disables throttling.
	AuthLimit fiber.Handler
	// Gatherer backs /metrics. Nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
}

// Handler serves the JSON API and the HTML pages.
type Handler struct {
	db           *sql.DB
	catalog      service.CatalogService
	bookings     service.BookingService
	auth         service.AuthService
	reviews      service.ReviewService
	attachments  service.AttachmentService
	pages        *web.Renderer
	log          *zap.Logger
	secureCookie bool
}

// New builds a Handler from its dependencies.
func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:           d.DB,
		catalog:      d.Catalog,
		bookings:     d.Bookings,
		auth:         d.Auth,
		reviews:      d.Reviews,
		attachments:  d.Attachments,
		pages:        d.Pages,
		log:          log,
		secureCookie: d.SecureCookie,
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	h := New(d)

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(d.DB))
	// Simple liveness probe
	app.Get("/healthz", Liveness())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	limit := d.AuthLimit
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}
	requireAuth := middleware.RequireAuth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)

	// HTML pages
	app.Get("/", optionalAuth, h.Home)
	app.Get("/dashboard", optionalAuth, h.Dashboard)
	app.Post("/signin", limit, h.SignInForm)
	app.Post("/signout", optionalAuth, h.SignOutForm)

	api := app.Group("/api/v1")

	api.Get("/services", h.ListServices)
	api.Get("/categories", h.ListCategories)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", limit, h.SignUp)
	authGroup.Post("/signin", limit, h.SignIn)
	authGroup.Post("/signout", requireAuth, h.SignOut)
	authGroup.Get("/user", requireAuth, h.CurrentUser)
	authGroup.Get("/session", requireAuth, h.CurrentSession)

	bookings := api.Group("/bookings", requireAuth)
	bookings.Post("/", h.CreateBooking)
	bookings.Get("/", h.ListBookings)
	bookings.Get("/:id", h.GetBooking)
	bookings.Post("/:id/cancel", h.CancelBooking)
	bookings.Post("/:id/review", h.CreateReview)
	bookings.Post("/:id/attachments", h.UploadAttachment)
	bookings.Get("/:id/attachments", h.ListAttachments)
	bookings.Get("/:id/attachments/:attachmentId", h.DownloadAttachment)
	bookings.Delete("/:id/attachments/:attachmentId", h.DeleteAttachment)
}

// HealthCheck reports healthy when the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// Liveness always answers 200 while the process serves requests.
func Liveness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
