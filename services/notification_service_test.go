package services

import (
	"testing"

	"call_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.Call{},
		&models.Prospect{},
		&models.Notification{},
	)
	assert.NoError(t, err)

	assert.NoError(t, db.Create(&models.Tenant{ID: "tenant-1", Name: "Cabinet Test"}).Error)
	return db
}

func TestNotificationService(t *testing.T) {
	db := setupNotificationTestDB(t)
	service := NewNotificationService(db)

	call := &models.Call{
		TenantID:      "tenant-1",
		ExternalID:    "conv-n-1",
		Direction:     models.CallDirectionInbound,
		Status:        models.CallStatusCompleted,
		EmergencyType: strPtr("keyword:danger"),
	}
	assert.NoError(t, db.Create(call).Error)

	prospect := &models.Prospect{
		TenantID:  "tenant-1",
		FirstName: strPtr("Marie"),
		LastName:  strPtr("Dupont"),
		Source:    models.ProspectSourceCallAI,
		IsActive:  true,
	}
	assert.NoError(t, db.Create(prospect).Error)

	t.Run("NotifyNewProspect", func(t *testing.T) {
		err := service.NotifyNewProspect(call, prospect)
		assert.NoError(t, err)

		var n models.Notification
		assert.NoError(t, db.First(&n, "type = ?", models.NotificationTypeNewProspect).Error)
		assert.Equal(t, "tenant-1", n.TenantID)
		assert.Equal(t, call.ID, *n.CallID)
		assert.Equal(t, prospect.ID, *n.ProspectID)
		assert.Contains(t, n.Message, "Marie Dupont")
		assert.Equal(t, "/prospects/"+prospect.ID, n.LinkURL)
	})

	t.Run("NotifyEmergencyCall", func(t *testing.T) {
		err := service.NotifyEmergencyCall(call)
		assert.NoError(t, err)

		var n models.Notification
		assert.NoError(t, db.First(&n, "type = ?", models.NotificationTypeEmergencyCall).Error)
		assert.Contains(t, n.Message, "keyword:danger")
		assert.Equal(t, "/calls/"+call.ID, n.LinkURL)
	})

	t.Run("UnreadListingAndCount", func(t *testing.T) {
		notifications, err := service.GetUnreadNotifications("tenant-1")
		assert.NoError(t, err)
		assert.Len(t, notifications, 2)

		count, err := service.GetNotificationCount("tenant-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("MarkAsReadIsTenantScoped", func(t *testing.T) {
		notifications, err := service.GetUnreadNotifications("tenant-1")
		assert.NoError(t, err)
		target := notifications[0]

		// Wrong tenant: nothing changes
		assert.NoError(t, service.MarkAsRead(target.ID, "tenant-other"))
		count, _ := service.GetNotificationCount("tenant-1")
		assert.Equal(t, int64(2), count)

		assert.NoError(t, service.MarkAsRead(target.ID, "tenant-1"))
		count, _ = service.GetNotificationCount("tenant-1")
		assert.Equal(t, int64(1), count)
	})

	t.Run("MarkAllAsRead", func(t *testing.T) {
		assert.NoError(t, service.MarkAllAsRead("tenant-1"))
		count, err := service.GetNotificationCount("tenant-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
