package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/placement-hub/portal/internal/api/http/handlers"
	"github.com/placement-hub/portal/internal/domain"
	"github.com/placement-hub/portal/internal/guard"
	"github.com/placement-hub/portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Session  *handlers.SessionHandler
	Auth     *handlers.AuthHandler
	Students *handlers.StudentHandler
	Colleges *handlers.CollegeHandler
	Guard    *guard.Guard
	Client   fiber.Handler
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	portal := app.Group("", cfg.Client)

	portal.Get("/session", cfg.Session.Snapshot)
	portal.Get("/session/events", cfg.Session.Events)

	authGroup := portal.Group("/auth")
	authGroup.Post("/logout", RequireRole(cfg.Guard, ""), cfg.Auth.Logout)
	authGroup.Post("/:userType/login", cfg.Auth.Login)
	authGroup.Post("/:userType/register", cfg.Auth.Register)

	student := portal.Group("/student", RequireRole(cfg.Guard, domain.RoleStudent))
	student.Get("/dashboard", cfg.Students.Dashboard)
	student.Get("/profile", cfg.Students.GetProfile)
	student.Put("/profile", cfg.Students.PutProfile)
	student.Get("/resume", cfg.Students.Resume)
	student.Post("/skill-gap", cfg.Students.SkillGap)

	college := portal.Group("/college", RequireRole(cfg.Guard, domain.RoleCollege))
	college.Get("/dashboard", cfg.Colleges.Dashboard)
	college.Get("/search-students", cfg.Colleges.SearchStudents)
}
