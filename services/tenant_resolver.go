package services

import (
	"errors"

	"call_flow_app_go/models"

	"gorm.io/gorm"
)

// ErrNoTenant is returned when no tenant exists at all (empty
// deployment). Callers acknowledge and drop the event instead of
// surfacing an error to the provider.
var ErrNoTenant = errors.New("no tenant configured")

// ResolveTenant maps a provider agent id to a tenant id.
//
// Unmapped or missing agent ids fall back to the oldest tenant. That
// fallback is a single-tenant-deployment convenience, not a security
// boundary: a multi-tenant deployment should map every agent id
// explicitly via AgentConfig.
func ResolveTenant(dbConn *gorm.DB, agentID string) (string, error) {
	if agentID != "" {
		var cfg models.AgentConfig
		err := dbConn.Select("tenant_id").
			Where("eleven_labs_agent_id = ?", agentID).
			First(&cfg).Error
		if err == nil {
			return cfg.TenantID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
	}

	// Fallback: oldest tenant, so the choice is at least stable
	var tenant models.Tenant
	err := dbConn.Select("id").Order("created_at ASC").First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoTenant
	}
	if err != nil {
		return "", err
	}
	return tenant.ID, nil
}
