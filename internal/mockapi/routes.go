package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                      liveness
//	GET /api.php?s=/api/v1/<route>   query-routed entry
//	GET /api.php/v1/<route>          path-routed entry
//
// Both entries dispatch to the same catalog routes; see Handlers.Dispatch.
func SetupRoutes(handlers *Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		EchoRequestID(),
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)
	r.Get("/api.php", handlers.Dispatch)
	r.Get("/api.php/*", handlers.Dispatch)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "请求的API接口不存在: "+r.URL.Path)
	})

	return r
}
