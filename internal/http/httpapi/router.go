package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"merchmagic/internal/http/handlers"
	"merchmagic/internal/infra"
	"merchmagic/internal/metrics"
	"merchmagic/internal/middleware"
)

// Options carries the cross-cutting settings for the router.
type Options struct {
	Logger          infra.Logger
	Metrics         *metrics.Metrics
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)
		r.Get("/templates", app.Templates)
		r.Get("/edit-suggestions", app.EditSuggestions)
		r.Get("/stats", app.StatsSummary)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", app.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetSession)
				r.Delete("/", app.DeleteSession)
				r.Put("/logo", app.UploadLogo)
				r.Put("/template", app.SelectTemplate)
				r.Put("/instruction", app.SetInstruction)
				r.Get("/mockup", app.Mockup)
				r.Get("/mockup/download", app.DownloadMockup)
				r.Get("/bundle", app.DownloadBundle)

				// Remote calls are the expensive part; throttle them per client.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
					r.Post("/generate", app.Generate)
					r.Post("/edit", app.Edit)
				})
			})
		})
	})

	return r
}
