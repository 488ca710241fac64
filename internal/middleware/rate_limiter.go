package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter limits each client IP to perMinute requests per minute, with
// the whole minute's allowance available as a burst. Refused requests get a
// plain-text 429.
func RateLimiter(perMinute int) echo.MiddlewareFunc {
	return RateLimiterWithDenyHandler(perMinute, func(c echo.Context) error {
		return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
	})
}

// RateLimiterWithDenyHandler is RateLimiter with a custom answer for refused
// requests, for routes whose clients cannot show a bare 429.
func RateLimiterWithDenyHandler(perMinute int, deny echo.HandlerFunc) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 1
	}
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return deny(c)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return deny(c)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
