package middleware_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/yohanes2124/dms-portal/internal/middleware"
)

func rbacApp(role interface{}, allowed ...string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/", middleware.RequireRole(allowed...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	resp := perform(t, rbacApp("admin", "supervisor", "admin"), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireRoleNormalizesCase(t *testing.T) {
	resp := perform(t, rbacApp(" Supervisor ", "supervisor"), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireRoleDeniesOtherRole(t *testing.T) {
	resp := perform(t, rbacApp("student", "supervisor", "admin"), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleDeniesMissingRole(t *testing.T) {
	resp := perform(t, rbacApp(nil, "admin"), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
