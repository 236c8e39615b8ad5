package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/volleyhub/roster-service/internal/observability"
)

func NewRouter(
	handler *Handler,
	metrics *observability.Metrics,
	logger *slog.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerMemberRoutes(mux, handler)

	wrapped := recoverPanic(logger, mux)
	wrapped = RequestMetrics(metrics, wrapped)
	wrapped = CORS(corsAllowedOrigins, wrapped)
	wrapped = RequestLogging(logger, wrapped)

	return RequestTracing(wrapped)
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request is handed to the mux untouched so it can stamp the
		// matched route pattern for the metrics middleware above.
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
