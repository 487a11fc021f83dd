package services

import (
	"time"

	"aduana_flow_app_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) GetUnreadNotifications(office, operator string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("customs_office = ? AND (operator IS NULL OR operator = ?) AND read_at IS NULL", office, operator).
		Order("created_at DESC").
		Limit(5).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, office, operator string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND customs_office = ? AND (operator IS NULL OR operator = ?)", notificationID, office, operator).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(office, operator string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("customs_office = ? AND (operator IS NULL OR operator = ?) AND read_at IS NULL", office, operator).
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount(office, operator string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("customs_office = ? AND (operator IS NULL OR operator = ?) AND read_at IS NULL", office, operator).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}
