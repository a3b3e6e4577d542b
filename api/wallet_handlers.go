package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleAddMoney(c *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.services.Wallet.AddFunds(c.UserContext(), currentUserID(c), req.Amount)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "funds added", fiber.Map{"balance": user.Balance})
}

func (s *Server) handleWithdraw(c *fiber.Ctx) error {
	var req amountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.services.Wallet.Withdraw(c.UserContext(), currentUserID(c), req.Amount)
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "withdrawal recorded", fiber.Map{"balance": user.Balance})
}

func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	transactions, err := s.services.Wallet.ListTransactions(c.UserContext(), currentUserID(c), limitQuery(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "transactions", transactions)
}

func (s *Server) handleClaimDailyBonus(c *fiber.Ctx) error {
	result, err := s.services.Bonus.ClaimDailyBonus(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	return jsonSuccess(c, fiber.StatusOK, "daily bonus claimed", result)
}
