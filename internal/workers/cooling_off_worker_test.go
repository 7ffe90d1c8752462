package workers

import (
	"testing"
	"time"

	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRelationshipRepo struct {
	rel        *models.Relationship
	withdrawal *models.Withdrawal
	notified   []string
}

func (s *stubRelationshipRepo) FindByID(id string) (*models.Relationship, error) {
	if s.rel != nil && s.rel.ID == id {
		return s.rel, nil
	}
	return nil, repositories.ErrRelationshipNotFound
}

func (s *stubRelationshipRepo) FindActiveByUser(userID string) (*models.Relationship, error) {
	return nil, repositories.ErrRelationshipNotFound
}

func (s *stubRelationshipRepo) ListByUser(userID string) ([]models.Relationship, error) {
	return nil, nil
}

func (s *stubRelationshipRepo) FindLatestWithdrawalBetween(userA, userB string) (*models.Withdrawal, error) {
	return nil, repositories.ErrWithdrawalNotFound
}

func (s *stubRelationshipRepo) CreateFromApplication(app *models.Application) (*models.Relationship, error) {
	return nil, repositories.ErrApplicationNotFound
}

func (s *stubRelationshipRepo) WithdrawCAS(relationshipID string, withdrawal *models.Withdrawal) (bool, error) {
	return false, nil
}

func (s *stubRelationshipRepo) ListWithdrawalsToNotify(now time.Time) ([]models.Withdrawal, error) {
	if s.withdrawal == nil || s.withdrawal.PartiesNotified || s.withdrawal.CoolingOffUntil.After(now) {
		return nil, nil
	}
	return []models.Withdrawal{*s.withdrawal}, nil
}

func (s *stubRelationshipRepo) MarkWithdrawalNotified(withdrawalID string) error {
	s.notified = append(s.notified, withdrawalID)
	s.withdrawal.PartiesNotified = true
	return nil
}

type stubNotifier struct {
	recipients []string
	types      []models.NotificationType
}

func (s *stubNotifier) Notify(userID string, ntype models.NotificationType, title, body string, applicationID, relationshipID *string) {
	s.recipients = append(s.recipients, userID)
	s.types = append(s.types, ntype)
}

func (s *stubNotifier) ListNotifications(userID string, limit, offset int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (s *stubNotifier) MarkRead(userID, notificationID string) error { return nil }
func (s *stubNotifier) MarkAllRead(userID string) error              { return nil }
func (s *stubNotifier) CountUnread(userID string) (int64, error)     { return 0, nil }

func TestCoolingOffWorker_NotifiesBothPartiesOnce(t *testing.T) {
	withdrawnAt := time.Now().Add(-25 * time.Hour)
	rel := &models.Relationship{
		YouthID:   "youth-1",
		ElderlyID: "elderly-1",
		Stage:     models.StageWithdrawnCoolingOff,
	}
	rel.ID = "rel-1"
	withdrawal := &models.Withdrawal{
		RelationshipID:  rel.ID,
		InitiatorID:     "youth-1",
		WithdrawnAt:     withdrawnAt,
		CoolingOffUntil: withdrawnAt.Add(models.CoolingOffPeriod),
	}
	withdrawal.ID = "w-1"

	repo := &stubRelationshipRepo{rel: rel, withdrawal: withdrawal}
	notifier := &stubNotifier{}
	worker := NewCoolingOffWorker(repo, notifier, time.Minute)

	worker.runOnce()

	require.ElementsMatch(t, []string{"youth-1", "elderly-1"}, notifier.recipients)
	for _, ntype := range notifier.types {
		assert.Equal(t, models.NotificationCoolingOffEnded, ntype)
	}
	require.Equal(t, []string{"w-1"}, repo.notified)

	// A second sweep finds nothing left to do.
	worker.runOnce()
	assert.Len(t, notifier.recipients, 2)
}

func TestCoolingOffWorker_SkipsActiveWindows(t *testing.T) {
	withdrawnAt := time.Now().Add(-time.Hour)
	rel := &models.Relationship{YouthID: "youth-1", ElderlyID: "elderly-1", Stage: models.StageWithdrawnCoolingOff}
	rel.ID = "rel-1"
	withdrawal := &models.Withdrawal{
		RelationshipID:  rel.ID,
		WithdrawnAt:     withdrawnAt,
		CoolingOffUntil: withdrawnAt.Add(models.CoolingOffPeriod),
	}
	withdrawal.ID = "w-1"

	repo := &stubRelationshipRepo{rel: rel, withdrawal: withdrawal}
	notifier := &stubNotifier{}
	worker := NewCoolingOffWorker(repo, notifier, time.Minute)

	worker.runOnce()

	assert.Empty(t, notifier.recipients)
	assert.Empty(t, repo.notified)
}
