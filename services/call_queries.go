package services

import (
	"fmt"
	"math"

	"call_flow_app_go/models"

	"gorm.io/gorm"
)

// CallFilters narrows a call listing. Zero values mean "no filter".
type CallFilters struct {
	Status      string
	Direction   string
	IsEmergency *bool
	ProspectID  string
	Search      string
}

// CallListOptions controls pagination and filtering of call listings.
type CallListOptions struct {
	Page    int
	Limit   int
	Filters CallFilters
}

// Pagination describes one page of results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ListCalls returns one page of a tenant's calls, newest first.
func ListCalls(dbConn *gorm.DB, tenantID string, opts CallListOptions) ([]models.Call, *Pagination, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 || limit > 100 {
		limit = 25
	}

	query := dbConn.Model(&models.Call{}).Where("tenant_id = ?", tenantID)

	f := opts.Filters
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Direction != "" {
		query = query.Where("direction = ?", f.Direction)
	}
	if f.IsEmergency != nil {
		query = query.Where("is_emergency = ?", *f.IsEmergency)
	}
	if f.ProspectID != "" {
		query = query.Where("prospect_id = ?", f.ProspectID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("caller_number LIKE ? OR caller_name LIKE ? OR summary LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count calls: %w", err)
	}

	var calls []models.Call
	err := query.Preload("Prospect").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&calls).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list calls: %w", err)
	}

	pagination := &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
	return calls, pagination, nil
}

// GetCall returns one call scoped to its tenant.
func GetCall(dbConn *gorm.DB, tenantID, callID string) (*models.Call, error) {
	var call models.Call
	err := dbConn.Preload("Prospect").
		Where("id = ? AND tenant_id = ?", callID, tenantID).
		First(&call).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// CallStats aggregates a tenant's call activity for the dashboard.
type CallStats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	ByDirection map[string]int64 `json:"by_direction"`
	AvgDuration int              `json:"avg_duration"`
	Emergencies int64            `json:"emergencies"`
}

// GetCallStats computes call statistics for a tenant.
func GetCallStats(dbConn *gorm.DB, tenantID string) (*CallStats, error) {
	stats := &CallStats{
		ByStatus:    map[string]int64{},
		ByDirection: map[string]int64{},
	}

	base := func() *gorm.DB {
		return dbConn.Model(&models.Call{}).Where("tenant_id = ?", tenantID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count calls: %w", err)
	}

	type groupCount struct {
		Key   string
		Count int64
	}

	var byStatus []groupCount
	if err := base().Select("status AS key, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to group calls by status: %w", err)
	}
	for _, g := range byStatus {
		stats.ByStatus[g.Key] = g.Count
	}

	var byDirection []groupCount
	if err := base().Select("direction AS key, COUNT(*) AS count").Group("direction").Scan(&byDirection).Error; err != nil {
		return nil, fmt.Errorf("failed to group calls by direction: %w", err)
	}
	for _, g := range byDirection {
		stats.ByDirection[g.Key] = g.Count
	}

	var avg *float64
	if err := base().Select("AVG(duration)").Where("duration IS NOT NULL").Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to compute average duration: %w", err)
	}
	if avg != nil {
		stats.AvgDuration = int(math.Round(*avg))
	}

	if err := base().Where("is_emergency = ?", true).Count(&stats.Emergencies).Error; err != nil {
		return nil, fmt.Errorf("failed to count emergencies: %w", err)
	}

	return stats, nil
}
