package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

// RequestLogger logs one structured line per request.
func RequestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				interfaces.String("method", r.Method),
				interfaces.String("path", r.URL.Path),
				interfaces.Int("status", ww.Status()),
				interfaces.Int("bytes", ww.BytesWritten()),
				interfaces.String("duration", time.Since(start).String()),
				interfaces.String("request_id", chimiddleware.GetReqID(r.Context())),
				interfaces.String("remote", clientIP(r)),
			)
		})
	}
}
