package handlers

import (
	"errors"
	"net/http"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CallerHeader carries the authenticated caller's user id. The
// authentication layer sits in front of this service and is trusted to
// have populated it.
const CallerHeader = "X-User-ID"

func callerID(c echo.Context) string {
	return c.Request().Header.Get(CallerHeader)
}

func requireCaller(c echo.Context) (string, bool) {
	id := callerID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return "", false
	}
	return id, true
}

// writeError maps domain errors to HTTP statuses. Expected outcomes
// carry their reason to the caller; anything unclassified is logged in
// full and returned as an opaque failure.
func writeError(c echo.Context, log logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, domain.ErrSelfBid),
		errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})

	case errors.Is(err, domain.ErrAuctionClosed),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrBidsExist),
		errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})

	default:
		log.Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
