package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Auth requires the service API key in the X-API-Key header. The key comes
// from config rather than being read from the environment per request.
func Auth(apiKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" || key != apiKey {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
