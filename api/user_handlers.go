package api

import (
	"gamewin/models"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req models.RegisterParams
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.services.Users.Register(c.UserContext(), models.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRoleUser,
	})
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "account created", user)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.services.Users.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "login successful", user)
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user, err := s.services.Users.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "profile", user)
}

func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	notifications, err := s.services.Notifications.List(c.UserContext(), currentUserID(c), limitQuery(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "notifications", notifications)
}

func (s *Server) handleMarkNotificationRead(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Notifications.MarkRead(c.UserContext(), currentUserID(c), id); err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "notification marked as read", nil)
}
