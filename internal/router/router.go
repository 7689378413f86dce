package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yohanes2124/dms-portal/internal/config"
	"github.com/yohanes2124/dms-portal/internal/handler"
	"github.com/yohanes2124/dms-portal/internal/middleware"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	HousingHandler      *handler.HousingHandler
	ApplicationHandler  *handler.ApplicationHandler
	IssueHandler        *handler.IssueHandler
	RuleHandler         *handler.RuleHandler
	AnnouncementHandler *handler.AnnouncementHandler
	NotificationHandler *handler.NotificationHandler
	ReportHandler       *handler.ReportHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	student := string(models.RoleStudent)
	supervisor := string(models.RoleSupervisor)
	admin := string(models.RoleAdmin)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		// Credential endpoints are rate limited per IP.
		deps.AuthHandler.RegisterPublic(auth.Group("", middleware.RateLimit("auth", 20, time.Minute)))
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware, middleware.RequireRole(supervisor, admin))
		deps.UserHandler.Register(users)
	}

	if deps.HousingHandler != nil {
		housing := api.Group("/housing", jwtMiddleware)
		deps.HousingHandler.RegisterRead(housing)
		deps.HousingHandler.RegisterManage(housing.Group("", middleware.RequireRole(admin)))
	}

	if deps.ApplicationHandler != nil {
		applications := api.Group("/applications", jwtMiddleware)
		deps.ApplicationHandler.RegisterStudent(applications.Group("", middleware.RequireRole(student)))
		deps.ApplicationHandler.RegisterStaff(applications.Group("", middleware.RequireRole(supervisor, admin)))
		deps.ApplicationHandler.RegisterAdmin(applications.Group("", middleware.RequireRole(admin)))
	}

	if deps.IssueHandler != nil {
		issues := api.Group("/issues", jwtMiddleware)
		deps.IssueHandler.RegisterStudent(issues.Group("", middleware.RequireRole(student)))
		deps.IssueHandler.RegisterStaff(issues.Group("", middleware.RequireRole(supervisor, admin)))
	}

	if deps.RuleHandler != nil {
		rules := api.Group("/rules", jwtMiddleware)
		deps.RuleHandler.RegisterRead(rules)
		deps.RuleHandler.RegisterManage(rules.Group("", middleware.RequireRole(admin)))
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware)
		deps.AnnouncementHandler.RegisterRead(announcements)
		deps.AnnouncementHandler.RegisterManage(announcements.Group("", middleware.RequireRole(admin)))
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware, middleware.RequireRole(supervisor, admin))
		deps.ReportHandler.Register(reports)
	}
}
