package api

import (
	"errors"

	"gamewin/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Messages shown instead of internal failure details
const (
	messageUnavailable = "service temporarily unavailable, please retry"
	messageInternal    = "internal server error"
)

func jsonSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func jsonError(c *fiber.Ctx, status int, message string, retryable bool) error {
	body := fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	}
	if retryable {
		body["retryable"] = true
	}
	return c.Status(status).JSON(body)
}

// statusForError maps a service error kind to an HTTP status.
// The bool reports whether the client may retry the request.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, false
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientDil):
		return fiber.StatusBadRequest, false
	case errors.Is(err, service.ErrAlreadySettled),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyClaimedToday),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTournamentFull),
		errors.Is(err, service.ErrTournamentClosed),
		errors.Is(err, service.ErrNoRewardsConfigured):
		return fiber.StatusConflict, false
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict, true
	case errors.Is(err, service.ErrUserInactive):
		return fiber.StatusForbidden, false
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, false
	case errors.Is(err, service.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, true
	default:
		return fiber.StatusInternalServerError, false
	}
}

// errorHandler is the fiber error handler. Business failures keep their
// message; storage and unknown failures are logged and answered generically.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return jsonError(c, fiberErr.Code, fiberErr.Message, false)
	}

	status, retryable := statusForError(err)
	switch status {
	case fiber.StatusServiceUnavailable:
		log.WithFields(log.Fields{
			"requestID": requestID(c),
			"path":      c.Path(),
			"error":     err,
		}).Warn("Request failed on unavailable storage")
		return jsonError(c, status, messageUnavailable, retryable)
	case fiber.StatusInternalServerError:
		log.WithFields(log.Fields{
			"requestID": requestID(c),
			"path":      c.Path(),
			"error":     err,
		}).Error("Request failed")
		return jsonError(c, status, messageInternal, false)
	}
	return jsonError(c, status, err.Error(), retryable)
}
