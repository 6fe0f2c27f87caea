// Package middleware provides the request-processing chain applied before
// handlers: authenticate the tenant, then validate, then handle.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"paydash/internal/utils/response"
	"paydash/internal/validation"
)

// TenantLocal is the fiber locals key carrying the authenticated tenant id.
const TenantLocal = "tenantId"

// RequireTenant enforces the X-Tenant-Id header on every API route. Missing
// or malformed ids are rejected with 401 before the handler runs.
func RequireTenant(c *fiber.Ctx) error {
	tenantID := c.Get("X-Tenant-Id")
	if err := validation.ValidateTenantID(tenantID); err != nil {
		logrus.WithFields(logrus.Fields{
			"tenantId": tenantID,
			"path":     c.Path(),
		}).Warn("request rejected: invalid tenant")
		return response.Unauthorized(c, "X-Tenant-Id header is required. Expected format: tenant-{name}")
	}
	c.Locals(TenantLocal, tenantID)
	return c.Next()
}

// Tenant reads the authenticated tenant id stored by RequireTenant.
func Tenant(c *fiber.Ctx) string {
	tenantID, _ := c.Locals(TenantLocal).(string)
	return tenantID
}
