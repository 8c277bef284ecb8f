package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusOf maps an error returned by a use case to an HTTP status.
// Business rejections of a well-formed order (stock, delivery range, quantity
// policy) are unprocessable; malformed input is a bad request.
func statusOf(err error) int {
	switch {
	case errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, services.ErrOutOfDeliveryRange),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err. Internal failures are logged and hidden from the caller.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusOf(err)
	body := Error{Code: code, Message: err.Error()}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body.Kind = verr.Kind
		body.ID = verr.ID.Int64()
	}

	if code == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
		body.Message = http.StatusText(code)
	}

	return c.JSON(code, body)
}

// invalid renders a request that could not be turned into a command or query.
func invalid(c echo.Context, err error) error {
	return badRequest(c, err.Error())
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
