package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

type StationHandler struct {
	service ports.StationService
	log     *zap.Logger
}

func NewStationHandler(service ports.StationService, log *zap.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		log:     log,
	}
}

func (h *StationHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return respond(c, h.service.Create(c.UserContext(), &req), fiber.StatusCreated)
}

func (h *StationHandler) Update(c *fiber.Ctx) error {
	var req domain.UpdateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return respond(c, h.service.Update(c.UserContext(), c.Params("id"), &req), fiber.StatusOK)
}

func (h *StationHandler) Activate(c *fiber.Ctx) error {
	return respond(c, h.service.Activate(c.UserContext(), c.Params("id")), fiber.StatusOK)
}

func (h *StationHandler) Deactivate(c *fiber.Ctx) error {
	return respond(c, h.service.Deactivate(c.UserContext(), c.Params("id")), fiber.StatusOK)
}

func (h *StationHandler) Get(c *fiber.Ctx) error {
	return respond(c, h.service.Get(c.UserContext(), c.Params("id")), fiber.StatusOK)
}

// List accepts ?search=&isActive=&sortBy=&sortOrder=.
func (h *StationHandler) List(c *fiber.Ctx) error {
	var q domain.StationQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	return respondList(c, h.service.List(c.UserContext(), q))
}

// Nearby accepts ?lat=&lon=&radius= with radius in kilometres.
func (h *StationHandler) Nearby(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat", 1000)
	lon := c.QueryFloat("lon", 1000)
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return badRequest(c, "lat and lon are required and must be valid coordinates")
	}

	res := h.service.Nearby(c.UserContext(), domain.NearbyQuery{
		Latitude:  lat,
		Longitude: lon,
		RadiusKm:  c.QueryFloat("radius", 0),
	})
	return respondList(c, res)
}
