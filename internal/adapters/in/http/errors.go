package http

import (
	"errors"
	"log/slog"
	"net/http"

	"parcel-dispatch/internal/adapters/peerwire"
	"parcel-dispatch/internal/core/application/usecases/commands"
	"parcel-dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// respondError writes err as a servers.Error. Workflow failures carry their
// reason; a collaborator error without a known class answers 502.
func respondError(ctx echo.Context, err error) error {
	status, code := peerwire.Classify(err)
	reason := code

	var wfErr *commands.WorkflowError
	if errors.As(err, &wfErr) {
		reason = wfErr.Reason.String()
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request().Context(), "request failed",
			"component", "http",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"status", status,
			"error", err,
		)
	}

	return ctx.JSON(status, servers.Error{
		Code:    status,
		Message: err.Error(),
		Reason:  &reason,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// errorHandler renders errors escaping the handlers (binding failures,
// unknown routes) in the same body shape.
func errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = ctx.JSON(he.Code, servers.Error{Code: he.Code, Message: message})
		return
	}
	_ = respondError(ctx, err)
}
