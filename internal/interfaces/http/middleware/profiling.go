package middleware

import (
	"context"
	"strings"

	"github.com/drobe/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are probed too often to be worth labelling
	SkipPaths []string
}

// DefaultProfilingConfig skips the health probe
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{Enabled: true, SkipPaths: []string{"/health"}}
}

// Profiling attaches Pyroscope labels to every sample taken while a request
// is handled: the route template, the method and the API area (cart,
// orders, catalog and so on). Unmatched routes are not labelled.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skip[route] {
			c.Next()
			return
		}

		labels := telemetry.HTTPRequestLabels(route, c.Request.Method)
		if area := apiArea(route); area != "" {
			labels[telemetry.ProfilingLabelArea] = area
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// apiArea returns the segment after the version in /api/<version>/<area>/...
func apiArea(route string) string {
	parts := strings.SplitN(strings.TrimPrefix(route, "/"), "/", 4)
	if len(parts) < 3 || parts[0] != "api" {
		return ""
	}
	return parts[2]
}
