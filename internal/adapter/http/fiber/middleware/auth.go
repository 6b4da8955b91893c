package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
	"github.com/seu-repo/evstation/internal/service/auth"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalTokenID  = "token_id"
	// LocalOwnerRef holds the reference RequireOwnership checked.
	LocalOwnerRef = "owner_ref"
)

// AuthRequired resolves the bearer token into a principal and stores it both in
// Locals and in the request's user context.
func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}

		session, err := service.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			if domain.KindOf(err) == domain.KindInternal {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": domain.ErrInternal.Message})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalUserID, session.Principal.ID)
		c.Locals(LocalUserRole, session.Principal.Role.String())
		c.Locals(LocalTokenID, session.TokenID)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), session.Principal))

		return c.Next()
	}
}

// RequireFullAccess lets only Admin and StationUser principals through.
func RequireFullAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentPrincipal(c.UserContext())
		if err != nil {
			return Deny(c, domain.AsError(err))
		}
		if !p.Role.HasFullAccess() {
			return Deny(c, domain.ErrNotAuthorized)
		}
		return c.Next()
	}
}

// RequireOwnership gates the route with the evaluator. Bound values are read
// from the JSON body first and the route parameters second. The checked
// reference is stored under LocalOwnerRef; handlers read it with OwnerRef.
func RequireOwnership(evaluator *auth.OwnershipEvaluator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.CurrentPrincipal(c.UserContext())
		if err != nil {
			return Deny(c, domain.AsError(err))
		}

		values := auth.OrderedValues{
			Args:  bodyValues(c),
			Route: auth.MapValues(c.AllParams()),
		}
		decision := evaluator.Evaluate(c.UserContext(), p, values)
		if !decision.Allowed {
			return Deny(c, decision.Err)
		}
		if decision.Ref != "" {
			c.Locals(LocalOwnerRef, decision.Ref)
		}
		return c.Next()
	}
}

// OwnerRef returns the reference the ownership gate approved, falling back to
// the route parameter on routes without a bound value.
func OwnerRef(c *fiber.Ctx, param string) string {
	if ref, ok := c.Locals(LocalOwnerRef).(string); ok && ref != "" {
		return ref
	}
	return c.Params(param)
}

// Deny writes err with the status code of its kind.
func Deny(c *fiber.Ctx, err *domain.Error) error {
	if err == nil {
		err = domain.ErrNotAuthorized
	}
	return c.Status(StatusFor(err.Kind)).JSON(fiber.Map{"error": err.Message})
}

// bodyValues exposes the scalar top-level fields of a JSON body. Anything else yields no values.
func bodyValues(c *fiber.Ctx) auth.MapValues {
	body := c.Body()
	if len(body) == 0 || !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return nil
	}
	var raw map[string]interface{}
	if err := c.App().Config().JSONDecoder(body, &raw); err != nil {
		return nil
	}
	values := make(auth.MapValues, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values
}
