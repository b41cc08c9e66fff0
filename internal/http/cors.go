package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware returns a CORS middleware for farm dashboards served from
// another origin, or nil when CORS is disabled or no usable origin is configured.
// A single "*" allows every origin.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins, logger)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list. Entries that are neither "*" nor
// an http(s) origin are logged and dropped.
func parseOrigins(allowOrigins string, logger *slog.Logger) []string {
	var origins []string
	for part := range strings.SplitSeq(allowOrigins, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
		case origin == "*", strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			origins = append(origins, origin)
		default:
			logger.Warn("ignoring invalid CORS origin", slog.String("origin", origin))
		}
	}
	return origins
}
