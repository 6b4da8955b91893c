package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

type AuthHandler struct {
	service ports.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service ports.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	tokens, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return middleware.Deny(c, domain.AsError(err))
	}

	return c.JSON(fiber.Map{
		"tokens": fiber.Map{
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	token, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return middleware.Deny(c, domain.AsError(err))
	}

	return c.JSON(fiber.Map{
		"accessToken":  token,
		"refreshToken": req.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals(middleware.LocalTokenID).(string)
	if err := h.service.Logout(c.UserContext(), tokenID); err != nil {
		return middleware.Deny(c, domain.AsError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.JSON(fiber.Map{
		"id":   userID,
		"role": c.Locals(middleware.LocalUserRole),
	})
}
