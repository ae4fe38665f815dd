package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/ravnkild/eira/internal/telemetry"
)

// Recover converts panics in downstream handlers into 500 responses.
// The panic value and stack are logged and forwarded to Sentry when enabled.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)

				logger := GetLogger(r.Context())
				logger.Error("panic recovered",
					"error", rec,
					"path", r.URL.Path,
					"method", r.Method,
					"stack", string(debug.Stack()),
				)

				telemetry.CaptureError(err, map[string]interface{}{
					"path":   r.URL.Path,
					"method": r.Method,
				})

				respondInternalError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
