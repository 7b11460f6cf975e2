package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// mapServiceError turns a service error into an HTTP error. Unknown errors are
// logged and reported as 500 without their detail.
func mapServiceError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": verr.Error(),
			"errors":  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrImageNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrCannotFollowSelf),
		errors.Is(err, services.ErrOwnListing):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrOfferClosed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrNotListingOwner),
		errors.Is(err, services.ErrNotCommentAuthor),
		errors.Is(err, services.ErrNotImageOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("Request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
