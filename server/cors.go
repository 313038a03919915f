package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/joshtwist/go-throughput/config"
)

const preflightMaxAge = "86400"

// corsMiddleware applies the cross-origin policy to every matched route.
func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
			h.Set("Access-Control-Allow-Methods", methods)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if cfg.AllowedOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				h.Set("Access-Control-Max-Age", preflightMaxAge)
			}

			next.ServeHTTP(w, r)
		})
	}
}
