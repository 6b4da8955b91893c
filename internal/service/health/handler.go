package health

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler exposes the probes over HTTP. Probe responses are never cached.
type FiberHandler struct {
	service *Service
}

func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

// RegisterRoutes mounts the probes under /health plus the Kubernetes-style aliases.
func (h *FiberHandler) RegisterRoutes(router fiber.Router) {
	probes := router.Group("/health", noStore)
	probes.Get("/", h.Ready)
	probes.Get("/live", h.Live)
	probes.Get("/ready", h.Ready)

	router.Get("/livez", noStore, h.Live)
	router.Get("/readyz", noStore, h.Ready)
}

func (h *FiberHandler) Live(c *fiber.Ctx) error {
	return c.JSON(h.service.Live())
}

// Ready answers 503 while a required dependency is unhealthy. A degraded
// optional dependency still answers 200.
func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	res := h.service.Ready(c.UserContext())
	if !res.Ready {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(res)
}

func noStore(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Next()
}
