package api

import (
	"crypto/subtle"
	"strings"
	"time"

	"gamewin/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"

	localRequestID = "requestID"
	localUserID    = "userID"
	localUser      = "user"
)

// RequestObserver receives one call per finished request
type RequestObserver interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one
func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// accessLogMiddleware logs every request and reports it to the observer.
// It runs ahead of every route and consumes handler errors: the app's error
// handler writes the envelope here so the logged and recorded status is the
// one the client gets. It always returns nil, so fiber does not run the
// error handler a second time.
func accessLogMiddleware(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		log.WithFields(log.Fields{
			"requestID": requestID(c),
			"method":    c.Method(),
			"route":     route,
			"status":    status,
			"duration":  duration,
		}).Debug("Handled request")

		if observer != nil {
			observer.RecordHTTPRequest(c.Method(), route, status, duration)
		}
		return nil
	}
}

// gatewayAuth checks the shared gateway secret. An empty token disables the check.
func gatewayAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		presented, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid gateway credentials")
		}
		return c.Next()
	}
}

// requireUser reads the caller identity forwarded by the gateway
func requireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(headerUserID)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed user identity")
		}
		c.Locals(localUserID, id)
		return c.Next()
	}
}

// requireAdmin loads the caller and rejects anyone without the admin role
func (s *Server) requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.services.Users.GetUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return err
		}
		if !user.IsActive || !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		c.Locals(localUser, user)
		return c.Next()
	}
}

// optionalUser reads the caller identity when one is forwarded
func optionalUser(c *fiber.Ctx) uuid.UUID {
	id, err := uuid.Parse(c.Get(headerUserID))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}

func currentAdmin(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}
