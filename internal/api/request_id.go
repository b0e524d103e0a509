package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/samcharles93/furigana/internal/logger"
)

// RequestID tags every request with an id, echoing the client's
// X-Request-Id when present, and puts a logger carrying that id into the
// request context.
func RequestID(base logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			ctx := logger.WithContext(req.Context(), base.With("request_id", id))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
