package services

import (
	"errors"
	"fmt"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/models"
	"agelink_backend/internal/models/chat"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

// ApplicationService owns the youth-to-elderly pairing proposal flow:
// submission, admin review, and the elderly user's final decision that
// promotes the application to a relationship.
type ApplicationService interface {
	SubmitApplication(youthID string, req *dto.SubmitApplicationRequest) (*models.Application, error)
	ReviewApplication(adminID, applicationID string, approve bool) (*models.Application, error)
	DecideApplication(elderlyID, applicationID string, accept bool) (*dto.ApplicationResponse, error)
	GetApplication(callerID string, callerRole models.UserRole, applicationID string) (*models.Application, error)
	ListMyApplications(userID string) ([]models.Application, error)
	ListPendingReview(limit, offset int) ([]models.Application, int64, error)
}

type applicationService struct {
	applicationRepo  repositories.ApplicationRepository
	relationshipRepo repositories.RelationshipRepository
	userRepo         repositories.UserRepository
	chatRepo         repositories.ChatRepository
	notifications    NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	relationshipRepo repositories.RelationshipRepository,
	userRepo repositories.UserRepository,
	chatRepo repositories.ChatRepository,
	notifications NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo:  applicationRepo,
		relationshipRepo: relationshipRepo,
		userRepo:         userRepo,
		chatRepo:         chatRepo,
		notifications:    notifications,
	}
}

// SubmitApplication creates a pending_review application after every
// re-engagement guard passes. Guards, in order: target must be an elderly
// user, neither party may hold an active relationship, the pair must not
// already have an open application, the youth must not hold another open
// application, and the pair must be outside any cooling-off window.
func (s *applicationService) SubmitApplication(youthID string, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	if youthID == req.ElderlyID {
		return nil, apperrors.ErrInvalidOperation("application", "Cannot apply to yourself")
	}

	elderly, err := s.userRepo.FindByID(req.ElderlyID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if elderly.Role != models.UserRoleElderly {
		return nil, apperrors.ErrInvalidUserRole
	}

	if _, err := s.relationshipRepo.FindActiveByUser(youthID); err == nil {
		return nil, apperrors.ErrInvalidStatus("application", "An active relationship already exists")
	} else if !errors.Is(err, repositories.ErrRelationshipNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if _, err := s.relationshipRepo.FindActiveByUser(req.ElderlyID); err == nil {
		return nil, apperrors.ErrInvalidStatus("application", "The target user already has an active relationship")
	} else if !errors.Is(err, repositories.ErrRelationshipNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.applicationRepo.FindOpenBetween(youthID, req.ElderlyID); err == nil {
		return nil, apperrors.ErrInvalidStatus("application", "An application to this user is already in progress")
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if _, err := s.applicationRepo.FindOpenByYouth(youthID); err == nil {
		return nil, apperrors.ErrInvalidStatus("application", "An application is already in progress")
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if err := s.checkCoolingOff(youthID, req.ElderlyID); err != nil {
		return nil, err
	}

	app := &models.Application{
		YouthID:   youthID,
		ElderlyID: req.ElderlyID,
		Message:   req.Message,
		Status:    models.ApplicationStatusPendingReview,
	}
	if err := s.applicationRepo.Create(app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// The pre-match conversation exists as soon as the application does.
	dialog := &chat.Dialog{
		Kind:          chat.DialogKindApplication,
		ApplicationID: &app.ID,
	}
	if err := s.chatRepo.CreateDialog(dialog, []string{app.YouthID, app.ElderlyID}); err != nil {
		logger.WithError(err).Error("failed to create application dialog", "application_id", app.ID)
	}

	logger.Info("application submitted", "application_id", app.ID, "youth_id", youthID, "elderly_id", req.ElderlyID)
	return app, nil
}

// checkCoolingOff rejects re-engagement between the same two users while
// their latest withdrawal window is still open.
func (s *applicationService) checkCoolingOff(youthID, elderlyID string) error {
	withdrawal, err := s.relationshipRepo.FindLatestWithdrawalBetween(youthID, elderlyID)
	if err != nil {
		if errors.Is(err, repositories.ErrWithdrawalNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	now := timeNow()
	if withdrawal.CoolingOffActive(now) {
		return apperrors.ErrCoolingOffActive(withdrawal.CoolingOffUntil.Sub(now))
	}
	return nil
}

// ReviewApplication applies the admin verdict with a compare-and-set on the
// pending_review status. A lost race surfaces as a conflict so the reviewer
// refetches instead of blindly retrying.
func (s *applicationService) ReviewApplication(adminID, applicationID string, approve bool) (*models.Application, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	target := models.ApplicationStatusApproved
	if !approve {
		target = models.ApplicationStatusRejected
	}
	if !app.Status.CanTransition(target) {
		return nil, apperrors.ErrInvalidStatus("application",
			fmt.Sprintf("Cannot move application from '%s' to '%s'", app.Status, target))
	}

	now := timeNow()
	applied, err := s.applicationRepo.UpdateStatusCAS(app.ID, models.ApplicationStatusPendingReview, target,
		map[string]interface{}{
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !applied {
		return nil, apperrors.ErrConflict(nil, "application", "Application status changed concurrently; refetch and retry")
	}

	app.Status = target
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now

	s.notifyReviewed(app, approve)
	logger.Info("application reviewed", "application_id", app.ID, "approved", approve, "admin_id", adminID)
	return app, nil
}

// DecideApplication applies the elderly user's decision on an approved
// application. Acceptance atomically promotes the application to a
// relationship and opens the relationship conversation.
func (s *applicationService) DecideApplication(elderlyID, applicationID string, accept bool) (*dto.ApplicationResponse, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if app.ElderlyID != elderlyID {
		return nil, apperrors.ErrNotAParty
	}

	target := models.ApplicationStatusAccepted
	if !accept {
		target = models.ApplicationStatusRejected
	}
	if !app.Status.CanTransition(target) {
		return nil, apperrors.ErrInvalidStatus("application",
			fmt.Sprintf("Cannot move application from '%s' to '%s'", app.Status, target))
	}

	if !accept {
		applied, err := s.applicationRepo.UpdateStatusCAS(app.ID, models.ApplicationStatusApproved, target,
			map[string]interface{}{"decided_at": timeNow()})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if !applied {
			return nil, apperrors.ErrConflict(nil, "application", "Application status changed concurrently; refetch and retry")
		}
		app.Status = target
		s.notifyDecided(app, false, "")
		return &dto.ApplicationResponse{Application: app}, nil
	}

	// Acceptance still honors the one-active-relationship invariant for
	// both parties.
	for _, userID := range []string{app.YouthID, app.ElderlyID} {
		if _, err := s.relationshipRepo.FindActiveByUser(userID); err == nil {
			return nil, apperrors.ErrInvalidStatus("application", "A party already has an active relationship")
		} else if !errors.Is(err, repositories.ErrRelationshipNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	rel, err := s.relationshipRepo.CreateFromApplication(app)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrConflict(err, "application", "Application status changed concurrently; refetch and retry")
		}
		return nil, apperrors.InternalError(err)
	}

	dialog := &chat.Dialog{
		Kind:           chat.DialogKindRelationship,
		RelationshipID: &rel.ID,
	}
	if err := s.chatRepo.CreateDialog(dialog, []string{rel.YouthID, rel.ElderlyID}); err != nil {
		logger.WithError(err).Error("failed to create relationship dialog", "relationship_id", rel.ID)
	}

	app.Status = models.ApplicationStatusAccepted
	s.notifyDecided(app, true, rel.ID)
	logger.Info("application accepted", "application_id", app.ID, "relationship_id", rel.ID)

	return &dto.ApplicationResponse{
		Application:    app,
		RelationshipID: rel.ID,
	}, nil
}

func (s *applicationService) GetApplication(callerID string, callerRole models.UserRole, applicationID string) (*models.Application, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if callerRole != models.UserRoleAdmin && !app.IsParty(callerID) {
		return nil, apperrors.ErrNotAParty
	}
	return app, nil
}

func (s *applicationService) ListMyApplications(userID string) ([]models.Application, error) {
	apps, err := s.applicationRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

func (s *applicationService) ListPendingReview(limit, offset int) ([]models.Application, int64, error) {
	apps, total, err := s.applicationRepo.ListByStatus(models.ApplicationStatusPendingReview, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return apps, total, nil
}

func (s *applicationService) notifyReviewed(app *models.Application, approved bool) {
	if approved {
		s.notifications.Notify(app.YouthID, models.NotificationApplicationReviewed,
			"Application approved",
			"Your application passed review and now awaits the other side's decision.",
			&app.ID, nil)
		s.notifications.Notify(app.ElderlyID, models.NotificationApplicationReviewed,
			"New application for you",
			"Someone would like to connect with you. Review their application.",
			&app.ID, nil)
		return
	}
	s.notifications.Notify(app.YouthID, models.NotificationApplicationReviewed,
		"Application not approved",
		"Your application did not pass review.",
		&app.ID, nil)
}

func (s *applicationService) notifyDecided(app *models.Application, accepted bool, relationshipID string) {
	if accepted {
		for _, userID := range []string{app.YouthID, app.ElderlyID} {
			s.notifications.Notify(userID, models.NotificationRelationshipStarted,
				"Relationship started",
				"Your pairing is now active. Say hello in your new conversation.",
				&app.ID, &relationshipID)
		}
		return
	}
	s.notifications.Notify(app.YouthID, models.NotificationApplicationDecided,
		"Application declined",
		"The other side declined your application.",
		&app.ID, nil)
}
