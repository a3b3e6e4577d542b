package api

import (
	"gamewin/models"

	"github.com/gofiber/fiber/v2"
)

type statusRequest struct {
	Status models.TournamentStatus `json:"status"`
}

type resultRequest struct {
	Position *int `json:"position"`
	Kills    int  `json:"kills"`
}

func (s *Server) handleListTournaments(c *fiber.Ctx) error {
	var status *models.TournamentStatus
	if raw := c.Query("status"); raw != "" {
		st := models.TournamentStatus(raw)
		if !st.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown tournament status")
		}
		status = &st
	}

	tournaments, err := s.services.Tournaments.ListTournaments(c.UserContext(), status, limitQuery(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "tournaments", tournaments)
}

func (s *Server) handleGetTournament(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	tournament, err := s.services.Tournaments.GetTournament(c.UserContext(), id, optionalUser(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "tournament", tournament)
}

func (s *Server) handleJoinTournament(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	result, err := s.services.Tournaments.JoinTournament(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "joined tournament", result)
}

func (s *Server) handleListMyRegistrations(c *fiber.Ctx) error {
	registrations, err := s.services.Tournaments.ListUserRegistrations(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "registrations", registrations)
}

func (s *Server) handleCreateTournament(c *fiber.Ctx) error {
	var params models.CreateTournamentParams
	if err := parseBody(c, &params); err != nil {
		return err
	}
	adminID := currentAdmin(c).ID
	params.CreatedBy = &adminID

	tournament, err := s.services.Tournaments.CreateTournament(c.UserContext(), params)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusCreated, "tournament created", tournament)
}

func (s *Server) handleUpdateTournamentStatus(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tournament, err := s.services.Tournaments.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "tournament status updated", tournament)
}

func (s *Server) handleListTournamentRegistrations(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	registrations, err := s.services.Tournaments.ListTournamentRegistrations(c.UserContext(), id)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "registrations", registrations)
}

func (s *Server) handleSettleResult(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req resultRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := s.services.Tournaments.SettleResult(c.UserContext(), id, req.Position, req.Kills)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "result recorded", result)
}
