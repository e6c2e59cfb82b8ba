package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placement-hub/portal/internal/api/dto"
	"github.com/placement-hub/portal/internal/service"
)

// CollegeHandler serves the college views.
type CollegeHandler struct {
	colleges *service.CollegeService
}

// NewCollegeHandler constructs handler.
func NewCollegeHandler(colleges *service.CollegeService) *CollegeHandler {
	return &CollegeHandler{colleges: colleges}
}

// Dashboard handles GET /college/dashboard.
func (h *CollegeHandler) Dashboard(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}
	college, err := h.colleges.Profile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":    dto.NewUserResponse(&user),
		"college": dto.NewCollegeResponse(college),
	}})
}

// SearchStudents handles GET /college/search-students?q=&limit=&offset=.
func (h *CollegeHandler) SearchStudents(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	listings, err := h.colleges.SearchStudents(c.UserContext(), user.ID, c.Query("q"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewStudentListings(listings),
		"pagination": fiber.Map{
			"limit":  limit,
			"offset": offset,
			"count":  len(listings),
		},
	})
}
