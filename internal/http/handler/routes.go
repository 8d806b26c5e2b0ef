package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docexchange/internal/http/middleware"
	"docexchange/internal/service"
)

// Deps are the collaborators served by the HTTP routes.
type Deps struct {
	DB       *sql.DB
	Accounts service.AccountService
	Files    service.FileService
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// DocsHost is the Swagger host used when a request has no Host header.
	DocsHost string
}

// RegisterRoutes attaches HTTP routes to app. Handlers hold no business logic.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/swagger/*", SwaggerUI(d.DocsHost))

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/ops/register", RegisterOps(d.Accounts))
	authGroup.Post("/client/register", RegisterClient(d.Accounts))
	authGroup.Post("/login", Login(d.Accounts))
	app.Get("/verify/:uid/:token", VerifyEmail(d.Accounts))

	files := app.Group("/file", middleware.Authenticate(d.Accounts))
	files.Post("/", UploadFile(d.Files))
	files.Get("/", ListFiles(d.Files))
	files.Post("/link/:file_id", MintLink(d.Files))
	files.Get("/download/:signed_token/url", PresignDownload(d.Files))
	files.Get("/download/:signed_token", DownloadFile(d.Files))
}
