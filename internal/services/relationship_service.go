package services

import (
	"errors"

	"agelink_backend/internal/logger"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

// RelationshipService owns the active pairing and its one-way exit: the
// withdrawal that starts the cooling-off window.
type RelationshipService interface {
	GetRelationship(callerID, relationshipID string) (*models.Relationship, error)
	GetMyRelationship(userID string) (*models.Relationship, error)
	Withdraw(relationshipID, initiatorID string, req *dto.WithdrawRequest) (*models.Withdrawal, error)
}

type relationshipService struct {
	relationshipRepo repositories.RelationshipRepository
	notifications    NotificationService
}

func NewRelationshipService(
	relationshipRepo repositories.RelationshipRepository,
	notifications NotificationService,
) RelationshipService {
	return &relationshipService{
		relationshipRepo: relationshipRepo,
		notifications:    notifications,
	}
}

func (s *relationshipService) GetRelationship(callerID, relationshipID string) (*models.Relationship, error) {
	rel, err := s.relationshipRepo.FindByID(relationshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !rel.IsParty(callerID) {
		return nil, apperrors.ErrNotAParty
	}
	return rel, nil
}

func (s *relationshipService) GetMyRelationship(userID string) (*models.Relationship, error) {
	rel, err := s.relationshipRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return rel, nil
}

// Withdraw ends an active relationship and stamps the cooling-off window.
// The operation is idempotent under retry: withdrawing an already-withdrawn
// relationship returns the existing record unchanged, so a client that lost
// the confirmation can safely resend.
func (s *relationshipService) Withdraw(relationshipID, initiatorID string, req *dto.WithdrawRequest) (*models.Withdrawal, error) {
	rel, err := s.relationshipRepo.FindByID(relationshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !rel.IsParty(initiatorID) {
		return nil, apperrors.ErrNotAParty
	}

	if rel.Stage == models.StageWithdrawnCoolingOff {
		if rel.Withdrawal != nil {
			return rel.Withdrawal, nil
		}
		// Stage flipped but the record is not visible yet; treat as a
		// stale read.
		return nil, apperrors.ErrConflict(nil, "relationship", "Relationship state changed concurrently; refetch and retry")
	}
	if rel.Stage != models.StageActiveRelationship {
		return nil, apperrors.ErrInvalidStatus("relationship", "Only an active relationship can be withdrawn from")
	}

	now := timeNow()
	withdrawal := &models.Withdrawal{
		RelationshipID:  rel.ID,
		InitiatorID:     initiatorID,
		Reason:          req.Reason,
		WithdrawnAt:     now,
		CoolingOffUntil: now.Add(models.CoolingOffPeriod),
	}

	applied, err := s.relationshipRepo.WithdrawCAS(rel.ID, withdrawal)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !applied {
		// Someone else withdrew between our read and our write. Refetch:
		// if the record exists now, honor the idempotence contract.
		fresh, err := s.relationshipRepo.FindByID(rel.ID)
		if err == nil && fresh.Stage == models.StageWithdrawnCoolingOff && fresh.Withdrawal != nil {
			return fresh.Withdrawal, nil
		}
		return nil, apperrors.ErrConflict(nil, "relationship", "Relationship state changed concurrently; refetch and retry")
	}

	counterpart := rel.CounterpartOf(initiatorID)
	s.notifications.Notify(counterpart, models.NotificationWithdrawal,
		"Relationship ended",
		"The other side has withdrawn from your relationship. A 24-hour cooling-off period now applies.",
		nil, &rel.ID)
	s.notifications.Notify(initiatorID, models.NotificationWithdrawal,
		"Withdrawal confirmed",
		"You have withdrawn from the relationship. A 24-hour cooling-off period now applies.",
		nil, &rel.ID)

	logger.Info("relationship withdrawn",
		"relationship_id", rel.ID,
		"initiator_id", initiatorID,
		"cooling_off_until", withdrawal.CoolingOffUntil,
	)
	return withdrawal, nil
}
