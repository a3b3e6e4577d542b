package api

import (
	"context"
	"time"

	"gamewin/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services groups everything the HTTP layer calls into
type Services struct {
	Users          service.UserService
	Wallet         service.WalletService
	Tournaments    service.TournamentService
	Spins          service.SpinService
	Bonus          service.BonusService
	Stats          service.StatsService
	Advertisements service.AdvertisementService
	Notifications  service.NotificationService
}

// Pinger reports whether storage is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP server
type Options struct {
	GatewayToken       string
	DefaultSpinDilCost int64
	Observer           RequestObserver
}

// Server holds the fiber app and its dependencies
type Server struct {
	app      *fiber.App
	services Services
	pinger   Pinger
	options  Options
}

// NewServer builds the fiber app with every route registered
func NewServer(services Services, pinger Pinger, options Options) *Server {
	s := &Server{
		services: services,
		pinger:   pinger,
		options:  options,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "gamewin",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	s.app.Use(recover.New())
	s.app.Use(requestIDMiddleware())
	s.app.Use(accessLogMiddleware(options.Observer))
	s.setupRoutes()

	return s
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP until Shutdown is called
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api", gatewayAuth(s.options.GatewayToken))

	auth := api.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)

	api.Get("/tournaments", s.handleListTournaments)
	api.Get("/tournaments/:id", s.handleGetTournament)
	api.Get("/spin-wheel/rewards", s.handleListSpinRewards)
	api.Get("/leaderboard", s.handleLeaderboard)
	api.Get("/advertisements", s.handleListActiveAdvertisements)
	api.Post("/advertisements/:id/click", s.handleAdvertisementClick)

	user := api.Group("", requireUser())

	me := user.Group("/me")
	me.Get("", s.handleMe)
	me.Get("/transactions", s.handleListTransactions)
	me.Get("/registrations", s.handleListMyRegistrations)
	me.Get("/notifications", s.handleListNotifications)
	me.Patch("/notifications/:id/read", s.handleMarkNotificationRead)

	wallet := user.Group("/wallet")
	wallet.Post("/add-money", s.handleAddMoney)
	wallet.Post("/withdraw", s.handleWithdraw)

	user.Post("/tournaments/:id/join", s.handleJoinTournament)
	user.Post("/spin-wheel/spin", s.handleSpin)
	user.Get("/spin-wheel/history", s.handleSpinHistory)
	user.Post("/daily-bonus/claim", s.handleClaimDailyBonus)

	admin := user.Group("/admin", s.requireAdmin())
	admin.Post("/tournaments", s.handleCreateTournament)
	admin.Patch("/tournaments/:id/status", s.handleUpdateTournamentStatus)
	admin.Get("/tournaments/:id/registrations", s.handleListTournamentRegistrations)
	admin.Post("/registrations/:id/result", s.handleSettleResult)
	admin.Get("/users", s.handleListUsers)
	admin.Patch("/users/:id/status", s.handleSetUserStatus)
	admin.Get("/spin-rewards", s.handleListAllSpinRewards)
	admin.Post("/spin-rewards", s.handleCreateSpinReward)
	admin.Patch("/spin-rewards/:id", s.handleSetSpinRewardActive)
	admin.Get("/advertisements", s.handleListAdvertisements)
	admin.Post("/advertisements", s.handleCreateAdvertisement)
	admin.Patch("/advertisements/:id", s.handleUpdateAdvertisement)
	admin.Delete("/advertisements/:id", s.handleDeleteAdvertisement)
	admin.Get("/analytics", s.handleAnalytics)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "database unreachable", true)
	}
	return jsonSuccess(c, fiber.StatusOK, "ok", nil)
}
