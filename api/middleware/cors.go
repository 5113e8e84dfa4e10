package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/sellboxapp/sellbox-backend/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",   // local dev
	"https://sellbox.app",     // production frontend
	"https://www.sellbox.app", // production frontend alias
}

// CORS returns middleware that applies the API's allowed origin policy. The
// configured buyer-facing base URL is always allowed.
func CORS(public config.PublicConfig) func(http.Handler) http.Handler {
	origins := append([]string{}, defaultCORSOrigins...)
	if base := strings.TrimRight(strings.TrimSpace(public.BaseURL), "/"); base != "" && !containsOrigin(origins, base) {
		origins = append(origins, base)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

func containsOrigin(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
