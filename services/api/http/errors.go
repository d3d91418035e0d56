package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/thinsos/sos"
)

// statusFor maps client errors onto HTTP statuses: rejected arguments are
// the caller's fault, failed exchanges with the service are upstream faults.
func statusFor(err error) int {
	var te *sos.TransportError
	switch {
	case errors.Is(err, sos.ErrNotAvailable),
		errors.Is(err, sos.ErrMissingArgument),
		errors.Is(err, sos.ErrInvalidTimestamp):
		return http.StatusBadRequest
	case errors.As(err, &te):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var te *sos.TransportError
	if errors.As(err, &te) && te.StatusCode != 0 {
		body["upstream_status"] = te.StatusCode
	}
	c.AbortWithStatusJSON(statusFor(err), body)
}
