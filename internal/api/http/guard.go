package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/placement-hub/portal/internal/api/http/handlers"
	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/guard"
)

// RequireRole gates the following handlers behind the route guard. An empty role admits
// any signed-in client. While the client's session is still loading the browser is asked
// to retry; a redirect decision is delivered as the response.
func RequireRole(g *guard.Guard, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, err := handlers.ClientFrom(c)
		if err != nil {
			return err
		}

		switch g.Check(c.UserContext(), client.Store, client.Navigator, role) {
		case guard.Admit:
			return c.Next()
		case guard.Redirect:
			return handlers.Navigate(c, client, func() error {
				return c.Redirect(domain.HomePath, http.StatusSeeOther)
			})
		default:
			c.Set("Refresh", "1")
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "loading"})
		}
	}
}
