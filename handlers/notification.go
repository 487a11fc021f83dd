package handlers

import (
	"net/http"

	"aduana_flow_app_go/db"
	"aduana_flow_app_go/middleware"
	"aduana_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetNotificationsHandler returns unread notifications for the operator's office
func GetNotificationsHandler(c echo.Context) error {
	ctx := middleware.GetAuditContext(c)

	notifications, err := services.NewNotificationService(db.DB).
		GetUnreadNotifications(ctx.CustomsOffice, ctx.Operator)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetNotificationCountHandler returns the unread notification count
func GetNotificationCountHandler(c echo.Context) error {
	ctx := middleware.GetAuditContext(c)

	count, err := services.NewNotificationService(db.DB).
		GetNotificationCount(ctx.CustomsOffice, ctx.Operator)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

// MarkNotificationReadHandler marks one notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	ctx := middleware.GetAuditContext(c)

	if err := services.NewNotificationService(db.DB).
		MarkAsRead(c.Param("id"), ctx.CustomsOffice, ctx.Operator); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllNotificationsReadHandler marks every unread notification as read
func MarkAllNotificationsReadHandler(c echo.Context) error {
	ctx := middleware.GetAuditContext(c)

	if err := services.NewNotificationService(db.DB).
		MarkAllAsRead(ctx.CustomsOffice, ctx.Operator); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}
