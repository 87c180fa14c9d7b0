package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Session keys. The user and admin flags are independent and may coexist in
// one browser session.
const (
	SessionKeyUserID  = "user_id"
	SessionKeyAdminID = "admin_id"
	SessionKeyIsAdmin = "is_admin"
)

// Principal is the verified identity for one request, resolved once from the
// session store so handlers never read ambient session state.
type Principal struct {
	UserID  uuid.UUID
	AdminID uuid.UUID
	IsAdmin bool
}

func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil
}

// WithPrincipal resolves the session into a Principal and stores it in the
// request locals. Unparseable or absent ids leave the zero value.
func WithPrincipal(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Session error")
		}

		var principal Principal
		if raw, ok := sess.Get(SessionKeyUserID).(string); ok {
			if id, err := uuid.Parse(raw); err == nil {
				principal.UserID = id
			}
		}
		if raw, ok := sess.Get(SessionKeyAdminID).(string); ok {
			if id, err := uuid.Parse(raw); err == nil {
				principal.AdminID = id
			}
		}
		if isAdmin, ok := sess.Get(SessionKeyIsAdmin).(bool); ok {
			principal.IsAdmin = isAdmin
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal resolved by WithPrincipal.
func PrincipalFromCtx(c *fiber.Ctx) Principal {
	if principal, ok := c.Locals(principalKey).(Principal); ok {
		return principal
	}
	return Principal{}
}

// RequireAdmin gates the back office: without the admin flag the request is
// redirected to the admin login page.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !PrincipalFromCtx(c).IsAdmin {
			return c.Redirect("/admin/login", fiber.StatusFound)
		}
		return c.Next()
	}
}
