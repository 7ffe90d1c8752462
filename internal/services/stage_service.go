package services

import (
	"errors"
	"time"

	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
)

// StageService resolves a user's pairing lifecycle stage from their
// application and relationship records. It is a pure read: nothing here
// mutates state and nothing consults session or UI state.
type StageService interface {
	CurrentStage(userID string) (models.Stage, *dto.StageContext, error)
}

type stageService struct {
	applicationRepo  repositories.ApplicationRepository
	relationshipRepo repositories.RelationshipRepository
}

func NewStageService(
	applicationRepo repositories.ApplicationRepository,
	relationshipRepo repositories.RelationshipRepository,
) StageService {
	return &stageService{
		applicationRepo:  applicationRepo,
		relationshipRepo: relationshipRepo,
	}
}

// CurrentStage resolves, in order: active relationship, open application,
// withdrawn relationship still inside its cooling-off window, and finally
// pre-match. A user whose only history is expired withdrawals resolves to
// pre-match like a brand-new user.
func (s *stageService) CurrentStage(userID string) (models.Stage, *dto.StageContext, error) {
	rel, err := s.relationshipRepo.FindActiveByUser(userID)
	if err == nil {
		return models.StageActiveRelationship, &dto.StageContext{RelationshipID: rel.ID}, nil
	}
	if !errors.Is(err, repositories.ErrRelationshipNotFound) {
		return "", nil, err
	}

	app, err := s.applicationRepo.FindOpenForUser(userID)
	if err == nil {
		ctx := &dto.StageContext{ApplicationID: app.ID}
		switch app.Status {
		case models.ApplicationStatusPendingReview:
			return models.StageApplicationPending, ctx, nil
		case models.ApplicationStatusApproved:
			return models.StageApplicationApproved, ctx, nil
		}
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return "", nil, err
	}

	if stage, ctx, ok, err := s.coolingOffStage(userID); err != nil {
		return "", nil, err
	} else if ok {
		return stage, ctx, nil
	}

	return models.StagePreMatch, &dto.StageContext{}, nil
}

// coolingOffStage reports whether the user's most recent withdrawal is still
// inside its cooling-off window.
func (s *stageService) coolingOffStage(userID string) (models.Stage, *dto.StageContext, bool, error) {
	rels, err := s.relationshipRepo.ListByUser(userID)
	if err != nil {
		return "", nil, false, err
	}

	var latest *models.Relationship
	for i := range rels {
		rel := &rels[i]
		if rel.Stage != models.StageWithdrawnCoolingOff || rel.Withdrawal == nil {
			continue
		}
		if latest == nil || rel.Withdrawal.WithdrawnAt.After(latest.Withdrawal.WithdrawnAt) {
			latest = rel
		}
	}

	if latest == nil || !latest.Withdrawal.CoolingOffActive(timeNow()) {
		return "", nil, false, nil
	}

	return models.StageWithdrawnCoolingOff, &dto.StageContext{
		RelationshipID:  latest.ID,
		CoolingOffUntil: latest.Withdrawal.CoolingOffUntil.Format(time.RFC3339),
	}, true, nil
}
