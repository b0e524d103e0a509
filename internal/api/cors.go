package api

import (
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

// DefaultAllowedOrigins are the local development origins of the reader
// frontend.
var DefaultAllowedOrigins = []string{
	"http://localhost:56595",
	"http://127.0.0.1:56595",
}

// CORS only lets the given origins through. Methods and headers are left at
// the middleware defaults. An empty list falls back to DefaultAllowedOrigins.
func CORS(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
	})
}
