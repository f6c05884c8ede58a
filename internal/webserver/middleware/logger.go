package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
)

// HeaderRequestID is the header carrying the request correlation id; one is
// generated when the caller doesn't provide it.
const HeaderRequestID = "X-Request-Id"

// Logger attaches a correlation id to each request and logs its outcome.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}

			c.Response().Header().Set(HeaderRequestID, rid)

			l := log.WithPrefixf("[%s]", rid)
			c.Set("logger", l)

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				c.Error(err)
				status = c.Response().Status
			}

			l.Infof("%s %s -> %d (%s)",
				c.Request().Method, c.Request().RequestURI, status, time.Since(start))

			return nil
		}
	}
}

// GetLogger returns the request scoped logger attached by 'Logger', falling
// back to the given one.
func GetLogger(c echo.Context, fallback logger.Logger) logger.Logger {
	if l, ok := c.Get("logger").(logger.Logger); ok {
		return l
	}

	return fallback
}
