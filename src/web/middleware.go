package web

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/cors"

	"github.com/iafilius/StatePopulationDashboard/src/logging"
)

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

var requestSeq atomic.Uint64

// requestIDHeader echoes the id used to scope a request's log lines.
const requestIDHeader = "X-Request-ID"

// loggingMiddleware scopes a logger to the request, stores it in the request context and writes one access
// line once the wrapped handler (recovery included) has finished.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := strconv.FormatUint(requestSeq.Add(1), 10)
		l := logging.Scoped("http").With(id)
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.NewContext(r.Context(), l)))
		l.Infof("%s %s %s %d %s", r.RemoteAddr, r.Method, r.URL.RequestURI(), rec.status, time.Since(start))
	})
}

// recoveryMiddleware turns a handler panic into a 500 JSON response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logging.FromContext(r.Context()).Errorf("panic serving %s: %v\n%s", r.URL.Path, err, debug.Stack())
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// newCORS allows read-only cross-origin access to the JSON API.
func newCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:         86400,
	})
}
