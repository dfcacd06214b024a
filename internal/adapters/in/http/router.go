package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"parcel-dispatch/api"
	"parcel-dispatch/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// RouterConfig selects what the router exposes besides the public API.
type RouterConfig struct {
	Peer    *PeerServer
	Swagger bool
	Logger  *slog.Logger
}

// NewRouter builds the echo instance serving the public API, validated
// against the embedded OpenAPI document, plus health, swagger and peer
// routes.
func NewRouter(server servers.ServerInterface, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	oapiRouter, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	if cfg.Swagger {
		registerSwagger(doc)
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	apiGroup := e.Group("", validateRequests(oapiRouter))
	servers.RegisterHandlers(apiGroup, server)

	if cfg.Peer != nil {
		cfg.Peer.Register(e.Group(PeerPrefix))
	}

	return e, nil
}

// LoadOpenAPI parses and validates the embedded document. Servers are
// dropped so routes match whatever host the service is reached on.
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	doc.Servers = nil
	return doc, nil
}

// validateRequests rejects requests that do not match the document with
// 400. Requests outside the document pass through to echo's routing.
func validateRequests(router routers.Router) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return badRequest(c, err.Error())
			}
			return next(c)
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError || v.Error != nil {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

var swaggerOnce sync.Once

// swaggerDoc serves the OpenAPI document to echo-swagger.
type swaggerDoc struct {
	doc *openapi3.T
}

func (s swaggerDoc) ReadDoc() string {
	data, err := s.doc.MarshalJSON()
	if err != nil {
		slog.ErrorContext(context.Background(), "marshal openapi document", "component", "http", "error", err)
		return "{}"
	}
	return string(data)
}

func registerSwagger(doc *openapi3.T) {
	swaggerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{doc: doc})
	})
}
