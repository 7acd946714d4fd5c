// Package handler exposes the hotel API over HTTP. Handlers decode the
// request, call one service or the store and return errors unchanged;
// ErrorHandler is the only place that turns an error into a response.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/service"
	"github.com/iliyamo/hotel-management/internal/store"
)

// ErrUnknownCollection is returned for collections outside the allow-list.
var ErrUnknownCollection = errors.New("unknown collection")

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "invalid body")

// ErrorHandler maps errors to {"error": message, "code": Code} with the
// status of their kind. Anything unrecognised is a 500 that also carries
// the underlying message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func errorResponse(err error) (int, echo.Map) {
	if e, ok := service.AsError(err); ok {
		return e.Kind.Status(), echo.Map{"error": err.Error(), "code": e.Code}
	}
	switch {
	case errors.Is(err, ErrUnknownCollection):
		return http.StatusNotFound, echo.Map{"error": err.Error(), "code": "NotFound"}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, echo.Map{"error": "not found", "code": "NotFound"}
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, echo.Map{"error": "id already exists", "code": "Conflict"}
	case errors.Is(err, store.ErrInvalidField):
		return http.StatusBadRequest, echo.Map{"error": "invalid field name", "code": "InvalidField"}
	case errors.Is(err, repository.ErrMalformed):
		return http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "InternalError", "message": err.Error()}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		if he.Internal != nil && he.Code < http.StatusInternalServerError {
			msg = fmt.Sprintf("%s: %v", msg, he.Internal)
		}
		return he.Code, echo.Map{"error": msg, "code": statusCode(he.Code)}
	}
	return http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "InternalError", "message": err.Error()}
}

// statusCode turns a status into a code like "MethodNotAllowed".
func statusCode(status int) string {
	if status >= http.StatusInternalServerError {
		return "InternalError"
	}
	return strings.ReplaceAll(http.StatusText(status), " ", "")
}
