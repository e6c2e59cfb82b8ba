package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/placement-hub/portal/internal/api/dto"
	"github.com/placement-hub/portal/internal/service"
)

// StudentHandler serves the student views.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Dashboard handles GET /student/dashboard.
func (h *StudentHandler) Dashboard(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}
	dash, err := h.students.Dashboard(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStudentDashboardResponse(dash)})
}

// GetProfile handles GET /student/profile.
func (h *StudentHandler) GetProfile(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}
	student, err := h.students.Profile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	resp := dto.NewStudentResponse(student)
	resp.Email = user.Email
	return c.JSON(fiber.Map{"data": resp})
}

// PutProfile handles PUT /student/profile.
func (h *StudentHandler) PutProfile(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}

	var req dto.StudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	student, err := h.students.SaveProfile(c.UserContext(), user.ID, req.ToInput())
	if err != nil {
		return err
	}
	resp := dto.NewStudentResponse(student)
	resp.Email = user.Email
	return c.JSON(fiber.Map{"data": resp})
}

// Resume handles GET /student/resume.
func (h *StudentHandler) Resume(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}
	preview, err := h.students.Resume(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": preview})
}

// SkillGap handles POST /student/skill-gap.
func (h *StudentHandler) SkillGap(c *fiber.Ctx) error {
	client, err := ClientFrom(c)
	if err != nil {
		return err
	}
	user, err := currentUser(client)
	if err != nil {
		return err
	}

	var req dto.SkillGapRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	report, err := h.students.SkillGap(c.UserContext(), user.ID, req.Skills)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
