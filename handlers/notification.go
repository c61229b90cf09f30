package handlers

import (
	"net/http"

	"call_flow_app_go/db"
	"call_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler returns the tenant's unread notifications.
// GET /api/v1/notifications
func GetNotificationsHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	service := services.NewNotificationService(db.DB)
	notifications, err := service.GetUnreadNotifications(tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load notifications"})
	}

	count, err := service.GetNotificationCount(tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to count notifications"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  count,
	})
}

// MarkNotificationReadHandler marks one notification as read.
// POST /api/v1/notifications/:id/read
func MarkNotificationReadHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	service := services.NewNotificationService(db.DB)
	if err := service.MarkAsRead(c.Param("id"), tenantID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark as read"})
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler marks every notification as read.
// POST /api/v1/notifications/read-all
func MarkAllNotificationsReadHandler(c echo.Context) error {
	tenantID, err := resolveTenantParam(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No tenant configured"})
	}

	service := services.NewNotificationService(db.DB)
	if err := service.MarkAllAsRead(tenantID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark all as read"})
	}

	return c.NoContent(http.StatusNoContent)
}
