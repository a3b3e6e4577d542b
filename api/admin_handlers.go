package api

import (
	"gamewin/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.services.Users.ListUsers(c.UserContext(), limitQuery(c), offset)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "users", users)
}

func (s *Server) handleSetUserStatus(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req activeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.IsActive == nil {
		return fiber.NewError(fiber.StatusBadRequest, "isActive is required")
	}

	user, err := s.services.Users.SetUserActive(c.UserContext(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "user status updated", user)
}

func (s *Server) handleAnalytics(c *fiber.Ctx) error {
	stats, err := s.services.Stats.PlatformStats(c.UserContext())
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "platform analytics", stats)
}

func (s *Server) handleLeaderboard(c *fiber.Ctx) error {
	entries, err := s.services.Stats.Leaderboard(c.UserContext(), limitQuery(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "leaderboard", entries)
}

func (s *Server) handleListActiveAdvertisements(c *fiber.Ctx) error {
	position := models.AdPosition(c.Query("position", string(models.AdPositionHomeTop)))

	ads, err := s.services.Advertisements.ListActive(c.UserContext(), position)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "advertisements", ads)
}

func (s *Server) handleAdvertisementClick(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ad, err := s.services.Advertisements.RecordClick(c.UserContext(), id)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "click recorded", fiber.Map{"targetUrl": ad.TargetURL})
}

func (s *Server) handleListAdvertisements(c *fiber.Ctx) error {
	ads, err := s.services.Advertisements.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "advertisements", ads)
}

func (s *Server) handleCreateAdvertisement(c *fiber.Ctx) error {
	var ad models.Advertisement
	if err := parseBody(c, &ad); err != nil {
		return err
	}

	created, err := s.services.Advertisements.Create(c.UserContext(), &ad)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "advertisement created", created)
}

func (s *Server) handleUpdateAdvertisement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var update models.AdvertisementUpdate
	if err := parseBody(c, &update); err != nil {
		return err
	}

	ad, err := s.services.Advertisements.Update(c.UserContext(), id, update)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "advertisement updated", ad)
}

func (s *Server) handleDeleteAdvertisement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Advertisements.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "advertisement deleted", nil)
}
