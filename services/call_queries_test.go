package services

import (
	"bytes"
	"testing"

	"call_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCallQueriesTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.Call{},
		&models.Prospect{},
	)
	assert.NoError(t, err)

	assert.NoError(t, db.Create(&models.Tenant{ID: "tenant-1", Name: "Cabinet Test"}).Error)
	return db
}

func seedCalls(t *testing.T, db *gorm.DB) *models.Prospect {
	prospect := &models.Prospect{
		TenantID:  "tenant-1",
		FirstName: strPtr("Marie"),
		LastName:  strPtr("Dupont"),
		Phone:     strPtr("0612345678"),
		Source:    models.ProspectSourceCallAI,
		IsActive:  true,
	}
	assert.NoError(t, db.Create(prospect).Error)

	durations := []int{60, 120, 180}
	for i, extID := range []string{"conv-q-1", "conv-q-2", "conv-q-3"} {
		call := &models.Call{
			TenantID:   "tenant-1",
			ExternalID: extID,
			Direction:  models.CallDirectionInbound,
			Status:     models.CallStatusCompleted,
			Duration:   &durations[i],
		}
		assert.NoError(t, db.Create(call).Error)
	}

	emergency := &models.Call{
		TenantID:      "tenant-1",
		ExternalID:    "conv-q-urgent",
		Direction:     models.CallDirectionInbound,
		Status:        models.CallStatusFailed,
		ProspectID:    &prospect.ID,
		IsEmergency:   true,
		EmergencyType: strPtr("keyword:violence"),
		Summary:       strPtr("Situation de violence conjugale"),
	}
	assert.NoError(t, db.Create(emergency).Error)
	return prospect
}

func TestListCalls(t *testing.T) {
	db := setupCallQueriesTestDB(t)
	prospect := seedCalls(t, db)

	t.Run("AllCalls", func(t *testing.T) {
		calls, pagination, err := ListCalls(db, "tenant-1", CallListOptions{})
		assert.NoError(t, err)
		assert.Len(t, calls, 4)
		assert.Equal(t, int64(4), pagination.Total)
		assert.Equal(t, 1, pagination.Page)
		assert.Equal(t, 25, pagination.Limit)
	})

	t.Run("Pagination", func(t *testing.T) {
		calls, pagination, err := ListCalls(db, "tenant-1", CallListOptions{Page: 2, Limit: 3})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.Equal(t, 2, pagination.TotalPages)
	})

	t.Run("FilterByStatus", func(t *testing.T) {
		calls, _, err := ListCalls(db, "tenant-1", CallListOptions{Filters: CallFilters{Status: models.CallStatusFailed}})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.Equal(t, "conv-q-urgent", calls[0].ExternalID)
	})

	t.Run("FilterByEmergency", func(t *testing.T) {
		isEmergency := true
		calls, _, err := ListCalls(db, "tenant-1", CallListOptions{Filters: CallFilters{IsEmergency: &isEmergency}})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.True(t, calls[0].IsEmergency)
	})

	t.Run("FilterByProspect", func(t *testing.T) {
		calls, _, err := ListCalls(db, "tenant-1", CallListOptions{Filters: CallFilters{ProspectID: prospect.ID}})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
		assert.NotNil(t, calls[0].Prospect)
		assert.Equal(t, "Marie Dupont", calls[0].Prospect.FullName())
	})

	t.Run("SearchInSummary", func(t *testing.T) {
		calls, _, err := ListCalls(db, "tenant-1", CallListOptions{Filters: CallFilters{Search: "conjugale"}})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
	})

	t.Run("OtherTenantSeesNothing", func(t *testing.T) {
		calls, pagination, err := ListCalls(db, "tenant-other", CallListOptions{})
		assert.NoError(t, err)
		assert.Empty(t, calls)
		assert.Equal(t, int64(0), pagination.Total)
	})
}

func TestGetCall(t *testing.T) {
	db := setupCallQueriesTestDB(t)
	seedCalls(t, db)

	var seeded models.Call
	assert.NoError(t, db.First(&seeded, "external_id = ?", "conv-q-1").Error)

	t.Run("Found", func(t *testing.T) {
		call, err := GetCall(db, "tenant-1", seeded.ID)
		assert.NoError(t, err)
		assert.Equal(t, "conv-q-1", call.ExternalID)
	})

	t.Run("WrongTenant", func(t *testing.T) {
		_, err := GetCall(db, "tenant-other", seeded.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestGetCallStats(t *testing.T) {
	db := setupCallQueriesTestDB(t)
	seedCalls(t, db)

	stats, err := GetCallStats(db, "tenant-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.ByStatus[models.CallStatusCompleted])
	assert.Equal(t, int64(1), stats.ByStatus[models.CallStatusFailed])
	assert.Equal(t, int64(4), stats.ByDirection[models.CallDirectionInbound])
	assert.Equal(t, 120, stats.AvgDuration)
	assert.Equal(t, int64(1), stats.Emergencies)
}

func TestGenerateCallsExport(t *testing.T) {
	db := setupCallQueriesTestDB(t)
	seedCalls(t, db)

	buf, err := GenerateCallsExport(db, "tenant-1")
	assert.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Appels")
	assert.NoError(t, err)
	assert.Len(t, rows, 5) // header + 4 calls
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Resume", rows[0][8])
}
