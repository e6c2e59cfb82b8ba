package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/placement-hub/portal/internal/api/http/handlers"
	"github.com/placement-hub/portal/internal/session"
)

// ClientCookie describes the cookie that identifies a browser client.
type ClientCookie struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// ClientMiddleware attaches the browser client's context to the request, issuing a client
// cookie to browsers that do not carry a valid one. A freshly created client is given up
// to readyWait to finish its initial session fetch.
func ClientMiddleware(registry *session.Registry, cookie ClientCookie, readyWait time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The registry keeps the id, so it must not alias the request buffer.
		clientID := utils.CopyString(c.Cookies(cookie.Name))
		if _, err := uuid.Parse(clientID); err != nil {
			clientID = uuid.NewString()
		}
		c.Cookie(&fiber.Cookie{
			Name:     cookie.Name,
			Value:    clientID,
			Path:     "/",
			Domain:   cookie.Domain,
			MaxAge:   int(cookie.MaxAge.Seconds()),
			Secure:   cookie.Secure,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		client := registry.Acquire(clientID)
		if readyWait > 0 {
			timer := time.NewTimer(readyWait)
			select {
			case <-client.Ready():
			case <-timer.C:
			case <-c.UserContext().Done():
			}
			timer.Stop()
		}

		handlers.WithClient(c, client)
		return c.Next()
	}
}
