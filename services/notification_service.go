package services

import (
	"time"

	"call_flow_app_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// NotifyNewProspect records that the call pipeline linked a call to a
// newly created prospect.
func (s *NotificationService) NotifyNewProspect(call *models.Call, prospect *models.Prospect) error {
	title := "Nouveau prospect via l'agent IA"
	message := "Un appel a ete associe a un nouveau prospect."
	if name := prospect.FullName(); name != "" {
		message = "Un appel a ete associe au nouveau prospect " + name + "."
	}

	return s.CreateNotification(&models.Notification{
		TenantID:   call.TenantID,
		CallID:     &call.ID,
		ProspectID: &prospect.ID,
		Type:       models.NotificationTypeNewProspect,
		Title:      title,
		Message:    message,
		LinkURL:    "/prospects/" + prospect.ID,
	})
}

// NotifyEmergencyCall records an emergency-flagged call.
func (s *NotificationService) NotifyEmergencyCall(call *models.Call) error {
	reason := ""
	if call.EmergencyType != nil {
		reason = " (" + *call.EmergencyType + ")"
	}

	return s.CreateNotification(&models.Notification{
		TenantID: call.TenantID,
		CallID:   &call.ID,
		Type:     models.NotificationTypeEmergencyCall,
		Title:    "Appel urgent detecte",
		Message:  "L'agent IA a detecte une situation d'urgence pendant un appel" + reason + ".",
		LinkURL:  "/calls/" + call.ID,
	})
}

func (s *NotificationService) GetUnreadNotifications(tenantID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("tenant_id = ? AND read_at IS NULL", tenantID).
		Order("created_at DESC").
		Limit(10).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, tenantID string) error {
	now := time.Now()
	// Ensure the notification belongs to the tenant
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND tenant_id = ?", notificationID, tenantID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(tenantID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("tenant_id = ? AND read_at IS NULL", tenantID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount(tenantID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("tenant_id = ? AND read_at IS NULL", tenantID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}
