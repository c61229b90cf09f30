package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"call_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedNotifications(t *testing.T, db *gorm.DB) []models.Notification {
	tenant := &models.Tenant{ID: "tenant-notif", Name: "Cabinet Notif", IsActive: true}
	assert.NoError(t, db.Create(tenant).Error)

	notifications := []models.Notification{
		{TenantID: tenant.ID, Type: models.NotificationTypeNewProspect, Title: "Nouveau prospect"},
		{TenantID: tenant.ID, Type: models.NotificationTypeEmergencyCall, Title: "Appel urgent"},
	}
	for i := range notifications {
		assert.NoError(t, db.Create(&notifications[i]).Error)
	}
	return notifications
}

func TestGetNotificationsHandler(t *testing.T) {
	db := setupTestDB(t)
	seedNotifications(t, db)

	_, c, rec := setupEcho(http.MethodGet, "/api/v1/notifications", nil)
	assert.NoError(t, GetNotificationsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unread_count"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Notifications, 2)
	assert.Equal(t, int64(2), body.UnreadCount)
}

func TestMarkNotificationReadHandler(t *testing.T) {
	db := setupTestDB(t)
	notifications := seedNotifications(t, db)

	_, c, rec := setupEcho(http.MethodPost, "/api/v1/notifications/"+notifications[0].ID+"/read", nil)
	c.SetParamNames("id")
	c.SetParamValues(notifications[0].ID)
	assert.NoError(t, MarkNotificationReadHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var n models.Notification
	assert.NoError(t, db.First(&n, "id = ?", notifications[0].ID).Error)
	assert.True(t, n.IsRead())
}

func TestMarkAllNotificationsReadHandler(t *testing.T) {
	db := setupTestDB(t)
	seedNotifications(t, db)

	_, c, rec := setupEcho(http.MethodPost, "/api/v1/notifications/read-all", nil)
	assert.NoError(t, MarkAllNotificationsReadHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var unread int64
	assert.NoError(t, db.Model(&models.Notification{}).Where("read_at IS NULL").Count(&unread).Error)
	assert.Equal(t, int64(0), unread)
}
