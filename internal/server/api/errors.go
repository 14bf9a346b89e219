package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/handtohand/marketplace/internal/common"
	"github.com/handtohand/marketplace/internal/exchange"
	"google.golang.org/grpc/codes"
)

// Status maps a service error to an HTTP status, a gRPC code and the
// message safe to show the caller. Unknown errors become a generic 500.
func Status(err error) (int, codes.Code, string) {
	switch {
	case errors.Is(err, exchange.ErrForbidden):
		return http.StatusForbidden, codes.PermissionDenied, err.Error()
	case errors.Is(err, exchange.ErrInvalidAction),
		errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, codes.InvalidArgument, err.Error()
	case errors.Is(err, exchange.ErrInvalidTransition),
		errors.Is(err, common.ErrActiveExchangeExists),
		errors.Is(err, common.ErrFeedbackExists),
		errors.Is(err, common.ErrExchangeNotCompleted):
		return http.StatusBadRequest, codes.FailedPrecondition, err.Error()
	case errors.Is(err, common.ErrVersionConflict):
		return http.StatusConflict, codes.Aborted, "exchange was modified concurrently, retry"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, codes.NotFound, "not found"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, codes.Unauthenticated, "unauthorized"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codes.DeadlineExceeded, "request timed out"
	case errors.Is(err, context.Canceled):
		return 499, codes.Canceled, "request cancelled"
	}
	return http.StatusInternalServerError, codes.Internal, "internal error"
}
