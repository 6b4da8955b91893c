package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/domain"
)

// respond writes a mutation result. Failures carry the status of their error kind.
func respond(c *fiber.Ctx, res *domain.ServiceResult, okStatus int) error {
	if res.Success {
		return c.Status(okStatus).JSON(res)
	}
	return c.Status(middleware.StatusFor(res.Kind)).JSON(res)
}

func respondList(c *fiber.Ctx, res *domain.StationListResult) error {
	if !res.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
