package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhayas/halfdigit-web/internal/telemetry"
)

var untrackedPrefixes = []string{"/static/", "/images/", "/favicon", "/healthz"}

// Best-effort page view tracking. Only successful GETs of registered pages
// count; form posts, assets and unknown paths are skipped.
func visitTrackingMiddleware(sink telemetry.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet {
			return
		}
		if c.FullPath() == "" || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			return
		}

		flag, _ := c.Cookie(telemetry.VisitorCookie)
		telemetry.Beacon(sink, telemetry.Visit{
			VisitorType: telemetry.VisitorType(flag),
			Path:        path,
			Referrer:    c.GetHeader("Referer"),
			UserAgent:   c.GetHeader("User-Agent"),
		})
	}
}
