package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/axb35/ecfand/internal/ec"
	"github.com/axb35/ecfand/internal/persistence"
)

const (
	indentationChar = "  "
)

type (
	ErrorResponse struct {
		Error string `json:"error"`
	}
)

// Server exposes the EC over HTTP. All hardware access goes through the
// command queue, the controller is only consulted for software-held state.
type Server struct {
	commands     *ec.CommandQueue
	controller   *ec.Controller
	pers         persistence.Persistence
	snapshotPath string
}

func NewServer(commands *ec.CommandQueue, controller *ec.Controller, pers persistence.Persistence, snapshotPath string) *Server {
	return &Server{
		commands:     commands,
		controller:   controller,
		pers:         pers,
		snapshotPath: snapshotPath,
	}
}

func (s *Server) CreateRestService() *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())

	echoRest.Use(middleware.Logger())
	echoRest.Use(middleware.Recover())

	// request metrics live in their own registry so that building a second
	// server instance does not collide on the global one
	registry := prometheus.NewRegistry()
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ecfand",
		Registerer: registry,
	}))
	echoRest.GET("/prometheus/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, registry},
	}))

	s.registerApuEndpoints(echoRest)
	s.registerFanEndpoints(echoRest)

	return echoRest
}

// return the error message of an error, mapped to the proper status code
func returnError(c echo.Context, e error) (err error) {
	status := http.StatusInternalServerError
	if errors.Is(e, ec.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	return c.JSONPretty(status, &ErrorResponse{
		Error: e.Error(),
	}, indentationChar)
}
