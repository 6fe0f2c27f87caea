// Package validation holds request and identifier validation helpers.
package validation

import (
	"regexp"

	"paydash/internal/errors"
)

// tenantIDPattern is the format check applied to every tenant identifier,
// both on the HTTP surface and on the WebSocket handshake.
var tenantIDPattern = regexp.MustCompile(`^tenant-[A-Za-z0-9-]+$`)

// ValidateTenantID checks presence and format of a tenant identifier.
func ValidateTenantID(tenantID string) error {
	if tenantID == "" {
		return errors.ErrTenantRequired
	}
	if !tenantIDPattern.MatchString(tenantID) {
		return errors.ErrInvalidTenant
	}
	return nil
}
