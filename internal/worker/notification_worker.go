package worker

import (
	"github.com/spec-kit/estate-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to marketplace events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
