package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

type EVOwnerHandler struct {
	service ports.EVOwnerService
	log     *zap.Logger
}

func NewEVOwnerHandler(service ports.EVOwnerService, log *zap.Logger) *EVOwnerHandler {
	return &EVOwnerHandler{
		service: service,
		log:     log,
	}
}

func (h *EVOwnerHandler) Register(c *fiber.Ctx) error {
	var req ports.RegisterOwnerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return respond(c, h.service.Register(c.UserContext(), &req), fiber.StatusCreated)
}

func (h *EVOwnerHandler) Get(c *fiber.Ctx) error {
	return respond(c, h.service.Get(c.UserContext(), middleware.OwnerRef(c, "nic")), fiber.StatusOK)
}

// Me returns the profile of the calling EV owner.
func (h *EVOwnerHandler) Me(c *fiber.Ctx) error {
	p, err := auth.CurrentPrincipal(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return respond(c, h.service.GetByUserID(c.UserContext(), p.ID), fiber.StatusOK)
}

func (h *EVOwnerHandler) GetByUserID(c *fiber.Ctx) error {
	return respond(c, h.service.GetByUserID(c.UserContext(), middleware.OwnerRef(c, "userId")), fiber.StatusOK)
}

func (h *EVOwnerHandler) Update(c *fiber.Ctx) error {
	var patch domain.EVOwnerPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return respond(c, h.service.UpdateProfile(c.UserContext(), middleware.OwnerRef(c, "nic"), &patch), fiber.StatusOK)
}

func (h *EVOwnerHandler) Deactivate(c *fiber.Ctx) error {
	return respond(c, h.service.Deactivate(c.UserContext(), middleware.OwnerRef(c, "nic")), fiber.StatusOK)
}

func (h *EVOwnerHandler) Reactivate(c *fiber.Ctx) error {
	p, err := auth.CurrentPrincipal(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return respond(c, h.service.Reactivate(c.UserContext(), p, c.Params("nic")), fiber.StatusOK)
}
