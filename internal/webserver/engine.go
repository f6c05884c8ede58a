package webserver

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/logger"

	middlewarepkg "github.com/tripkit/agentd/internal/webserver/middleware"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Logger   logger.Logger
	Blobs    BlobService
	Sessions SessionService

	// DelegationTTL is the validity window used when a delegation request
	// doesn't specify one.
	DelegationTTL time.Duration
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.HideBanner = true
	engine.JSONSerializer = jsonSerializer{}

	engine.Use(middleware.Gzip())
	engine.Use(middlewarepkg.Logger(ctrl.Logger))

	engine.HTTPErrorHandler = middlewarepkg.NewHTTPErrorHandler(ctrl.Logger)

	router := engine.Group("")

	// Generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	probes := health{start: time.Now(), blobs: ctrl.Blobs, sessions: ctrl.Sessions}
	router.GET("/healthz", probes.Health)
	router.GET("/livez", probes.Live)
	router.GET("/readyz", probes.Ready)

	// Blobs
	//
	blobs := blobHandler{
		logger: ctrl.Logger,
		blobs:  ctrl.Blobs,
		ttl:    ctrl.DelegationTTL,
	}
	router.GET("/blobs/:name", blobs.Show)
	router.HEAD("/blobs/:name", blobs.Exists)
	router.GET("/blobs/:name/stream", blobs.Stream)
	router.GET("/blobs/:name/metadata", blobs.Metadata)
	router.GET("/blobs/:name/sas", blobs.Delegate)

	// Sessions
	//
	sessions := sessionHandler{
		logger:   ctrl.Logger,
		sessions: ctrl.Sessions,
	}
	router.POST("/sessions", sessions.Create)
	router.GET("/sessions/:id", sessions.Show)
	router.POST("/sessions/:id/execute", sessions.Execute)
	router.DELETE("/sessions/:id", sessions.Delete)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
