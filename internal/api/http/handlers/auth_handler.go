package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/placement-hub/portal/internal/api/dto"
	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/service"
)

// AuthHandler exposes the sign-in, registration and sign-out forms.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/:userType/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	role, err := userTypeParam(c)
	if err != nil {
		return err
	}
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.SignIn(c.UserContext(), client.Auth, client.Navigator, role, req.Email, req.Password)
	if err != nil {
		return err
	}
	return Navigate(c, client, func() error {
		return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(user)}})
	})
}

// Register handles POST /auth/:userType/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	role, err := userTypeParam(c)
	if err != nil {
		return err
	}
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.SignUp(c.UserContext(), client.Auth, client.Navigator, service.SignUpInput{
		Role:          role,
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		Mobile:        req.Mobile,
		CollegeName:   req.CollegeName,
		CollegeID:     req.CollegeID,
		OfficerName:   req.OfficerName,
		OfficerEmail:  req.OfficerEmail,
		OfficerMobile: req.OfficerMobile,
	})
	if err != nil {
		return err
	}
	return Navigate(c, client, func() error {
		return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(user)}})
	})
}

// Logout handles POST /auth/logout. The client ends up signed out whatever the provider
// answers.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	client.Store.SignOut(c.UserContext())
	return Navigate(c, client, func() error {
		return c.SendStatus(http.StatusNoContent)
	})
}

func userTypeParam(c *fiber.Ctx) (domain.Role, error) {
	role, ok := domain.ParseRole(c.Params("userType"))
	if !ok {
		return "", fiber.NewError(http.StatusNotFound, "unknown account type")
	}
	return role, nil
}
