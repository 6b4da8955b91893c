package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/evstation/pkg/config"
)

const corsMaxAge = 86400

var (
	corsMethods = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodOptions}
	corsHeaders = []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization, "X-Request-ID"}
)

// NewCORS lets the back-office console and the owner app call the API from the browser.
// Empty lists in cfg fall back to the methods and headers the API actually uses.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = corsMaxAge
	}

	// Browsers reject a wildcard origin on credentialed requests.
	origins := orDefault(cfg.AllowedOrigins, []string{"*"})
	credentials := cfg.Credentials && !(len(origins) == 1 && origins[0] == "*")

	return fibercors.New(fibercors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     strings.Join(orDefault(cfg.AllowedMethods, corsMethods), ","),
		AllowHeaders:     strings.Join(orDefault(cfg.AllowedHeaders, corsHeaders), ","),
		ExposeHeaders:    strings.Join(orDefault(cfg.ExposeHeaders, []string{fiber.HeaderContentLength}), ","),
		AllowCredentials: credentials,
		MaxAge:           maxAge,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
