package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

// Services are the application services the API exposes.
type Services struct {
	Auth     ports.AuthService
	Stations ports.StationService
	Owners   ports.EVOwnerService
	// OwnerRepo backs the ownership evaluators of the owner routes.
	OwnerRepo ports.EVOwnerRepository
}

// RegisterRoutes mounts the v1 API on router.
//
// Station writes are back-office only. Owner routes are gated by ownership:
// an EV owner may only reach the profile whose NIC or user id is their own.
func RegisterRoutes(router fiber.Router, svc Services, log *zap.Logger) {
	authHandler := NewAuthHandler(svc.Auth, log)
	stationHandler := NewStationHandler(svc.Stations, log)
	ownerHandler := NewEVOwnerHandler(svc.Owners, log)

	byNIC := middleware.RequireOwnership(auth.NewOwnershipEvaluator(svc.OwnerRepo, auth.NICRule("nic"), log))
	byUserID := middleware.RequireOwnership(auth.NewOwnershipEvaluator(svc.OwnerRepo, auth.UserIDRule("userId"), log))
	ownProfile := middleware.RequireOwnership(auth.NewOwnershipEvaluator(svc.OwnerRepo, auth.OwnerRule(), log))
	backOffice := middleware.RequireFullAccess()

	// Public
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/refresh", authHandler.RefreshToken)
	router.Post("/owners", ownerHandler.Register)

	protected := router.Group("", middleware.AuthRequired(svc.Auth))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/stations", stationHandler.List)
	protected.Get("/stations/nearby", stationHandler.Nearby)
	protected.Get("/stations/:id", stationHandler.Get)
	protected.Post("/stations", backOffice, stationHandler.Create)
	protected.Put("/stations/:id", backOffice, stationHandler.Update)
	protected.Patch("/stations/:id/activate", backOffice, stationHandler.Activate)
	protected.Patch("/stations/:id/deactivate", backOffice, stationHandler.Deactivate)

	protected.Get("/owners/me", ownProfile, ownerHandler.Me)
	protected.Get("/owners/:nic", byNIC, ownerHandler.Get)
	protected.Put("/owners/:nic", byNIC, ownerHandler.Update)
	protected.Patch("/owners/:nic/deactivate", byNIC, ownerHandler.Deactivate)
	protected.Patch("/owners/:nic/reactivate", backOffice, ownerHandler.Reactivate)
	protected.Get("/users/:userId/owner", byUserID, ownerHandler.GetByUserID)
}
