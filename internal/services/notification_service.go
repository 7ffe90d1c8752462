package services

import (
	"errors"
	"fmt"

	"agelink_backend/internal/email"
	"agelink_backend/internal/logger"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/pkg/apperrors"
)

// NotificationService persists in-app notifications and mirrors them to
// email best-effort. Delivery failures are logged, never propagated: a lost
// notification must not fail the lifecycle operation that produced it.
type NotificationService interface {
	Notify(userID string, ntype models.NotificationType, title, body string, applicationID, relationshipID *string)
	ListNotifications(userID string, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	CountUnread(userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
	}
}

func (s *notificationService) Notify(userID string, ntype models.NotificationType, title, body string, applicationID, relationshipID *string) {
	notification := &models.Notification{
		UserID:         userID,
		Type:           ntype,
		Title:          title,
		Body:           body,
		ApplicationID:  applicationID,
		RelationshipID: relationshipID,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.WithError(err).Error("failed to persist notification", "user_id", userID, "type", ntype)
		return
	}

	s.sendEmail(userID, title, body)
}

func (s *notificationService) sendEmail(userID, subject, body string) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			logger.WithError(err).Warn("failed to load user for notification email", "user_id", userID)
		}
		return
	}

	err = s.emailProvider.Send(&email.Email{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("AgeLink: %s", subject),
		Body:    body,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to send notification email", "user_id", userID)
	}
}

func (s *notificationService) ListNotifications(userID string, limit, offset int) ([]models.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(userID, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) CountUnread(userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}
