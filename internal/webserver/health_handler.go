package webserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// health exposes the liveness/readiness probes.
type health struct {
	start    time.Time
	blobs    BlobService
	sessions SessionService
}

func (h *health) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *health) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "alive",
		"uptime": time.Since(h.start).Round(time.Second).String(),
	})
}

// Ready reports whether both remote surfaces are wired. Clients are
// constructed without network I/O, so readiness is about configuration, not
// upstream reachability.
func (h *health) Ready(c echo.Context) error {
	checks := echo.Map{
		"blobs":    h.blobs != nil,
		"sessions": h.sessions != nil,
	}

	if h.blobs == nil || h.sessions == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "checks": checks})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ready", "checks": checks})
}
