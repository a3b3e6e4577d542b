package api

import (
	"gamewin/models"

	"github.com/gofiber/fiber/v2"
)

type spinRequest struct {
	DilCost *int64 `json:"dilCost"`
}

type activeRequest struct {
	IsActive *bool `json:"isActive"`
}

func (s *Server) handleListSpinRewards(c *fiber.Ctx) error {
	rewards, err := s.services.Spins.ListRewards(c.UserContext(), true)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "spin rewards", rewards)
}

func (s *Server) handleSpin(c *fiber.Ctx) error {
	var req spinRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	dilCost := s.options.DefaultSpinDilCost
	if req.DilCost != nil {
		dilCost = *req.DilCost
	}

	result, err := s.services.Spins.Spin(c.UserContext(), currentUserID(c), dilCost)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "spin completed", result)
}

func (s *Server) handleSpinHistory(c *fiber.Ctx) error {
	history, err := s.services.Spins.ListHistory(c.UserContext(), currentUserID(c), limitQuery(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "spin history", history)
}

func (s *Server) handleListAllSpinRewards(c *fiber.Ctx) error {
	rewards, err := s.services.Spins.ListRewards(c.UserContext(), false)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "spin rewards", rewards)
}

func (s *Server) handleCreateSpinReward(c *fiber.Ctx) error {
	var params models.CreateSpinRewardParams
	if err := parseBody(c, &params); err != nil {
		return err
	}

	reward, err := s.services.Spins.CreateReward(c.UserContext(), params)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "spin reward created", reward)
}

func (s *Server) handleSetSpinRewardActive(c *fiber.Ctx) error {
	id, err := int64Param(c, "id")
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

	reward, err := s.services.Spins.SetRewardActive(c.UserContext(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "spin reward updated", reward)
}
