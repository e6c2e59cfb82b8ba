package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/session"
	apperrors "github.com/placement-hub/portal/pkg/util"
)

const clientLocalsKey = "portal.client"

// WithClient stores the browser client's context on the request.
func WithClient(c *fiber.Ctx, client *session.Client) {
	c.Locals(clientLocalsKey, client)
}

// ClientFrom returns the browser client's context attached by the client middleware.
func ClientFrom(c *fiber.Ctx) (*session.Client, error) {
	client, ok := c.Locals(clientLocalsKey).(*session.Client)
	if !ok || client == nil {
		return nil, apperrors.NewInternalError(nil)
	}
	return client, nil
}

// currentUser returns the signed-in identity or an UNAUTHORIZED error.
func currentUser(client *session.Client) (domain.UserIdentity, error) {
	user := client.Store.CurrentUser()
	if user == nil {
		return domain.UserIdentity{}, apperrors.NewUnauthorized("sign in required")
	}
	return *user, nil
}

// Navigate answers with the client's pending navigation, or with fallback when nothing is
// pending. Browsers get a 303; callers asking for JSON get the navigation in the body.
func Navigate(c *fiber.Ctx, client *session.Client, fallback func() error) error {
	nav, ok := client.Navigator.Take()
	if !ok {
		return fallback()
	}
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(fiber.Map{"navigate": nav})
	}
	return c.Redirect(nav.Path, http.StatusSeeOther)
}
