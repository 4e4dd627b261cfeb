package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/linkpreview-service/internal/delivery/http/handler"
	"github.com/user/linkpreview-service/internal/delivery/http/middleware"
	"github.com/user/linkpreview-service/pkg/metrics"
	"go.uber.org/zap"
)

// New builds the HTTP router. gatherer backs the /metrics endpoint.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, l *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(l))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/preview", h.HandleGetPreview)
		r.Get("/previews", h.HandleGetHistory)
	})

	return r
}
