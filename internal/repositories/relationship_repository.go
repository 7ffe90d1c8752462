package repositories

import (
	"errors"
	"time"

	"agelink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
)

type RelationshipRepository interface {
	FindByID(id string) (*models.Relationship, error)
	// FindActiveByUser returns the user's single active relationship,
	// ErrRelationshipNotFound when the user has none.
	FindActiveByUser(userID string) (*models.Relationship, error)
	ListByUser(userID string) ([]models.Relationship, error)
	// FindLatestWithdrawalBetween returns the most recent withdrawal of any
	// relationship between the two users, in either role order.
	FindLatestWithdrawalBetween(userA, userB string) (*models.Withdrawal, error)
	// CreateFromApplication atomically marks the application accepted and
	// creates the relationship row. Returns ErrApplicationNotFound via the
	// CAS failing when the application moved concurrently.
	CreateFromApplication(app *models.Application) (*models.Relationship, error)
	// WithdrawCAS atomically moves the relationship stage from active to
	// withdrawn and inserts the withdrawal record. Reports false without
	// error when the stage was no longer active.
	WithdrawCAS(relationshipID string, withdrawal *models.Withdrawal) (bool, error)
	// ListWithdrawalsToNotify returns expired cooling-off records whose
	// parties have not been notified yet.
	ListWithdrawalsToNotify(now time.Time) ([]models.Withdrawal, error)
	MarkWithdrawalNotified(withdrawalID string) error
}

type RelationshipRepositoryImpl struct {
	db *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &RelationshipRepositoryImpl{db: db}
}

func (r *RelationshipRepositoryImpl) FindByID(id string) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.Preload("Withdrawal").Preload("Youth.Profile").Preload("Elderly.Profile").
		First(&rel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *RelationshipRepositoryImpl) FindActiveByUser(userID string) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.Preload("Withdrawal").
		Where("(youth_id = ? OR elderly_id = ?) AND stage = ?",
			userID, userID, models.StageActiveRelationship).
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *RelationshipRepositoryImpl) ListByUser(userID string) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.db.Preload("Withdrawal").
		Where("youth_id = ? OR elderly_id = ?", userID, userID).
		Order("created_at DESC").Find(&rels).Error
	return rels, err
}

func (r *RelationshipRepositoryImpl) FindLatestWithdrawalBetween(userA, userB string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.
		Joins("JOIN relationships ON relationships.id = withdrawals.relationship_id").
		Where("(relationships.youth_id = ? AND relationships.elderly_id = ?) OR (relationships.youth_id = ? AND relationships.elderly_id = ?)",
			userA, userB, userB, userA).
		Order("withdrawals.withdrawn_at DESC").
		First(&withdrawal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &withdrawal, nil
}

func (r *RelationshipRepositoryImpl) CreateFromApplication(app *models.Application) (*models.Relationship, error) {
	rel := &models.Relationship{
		YouthID:       app.YouthID,
		ElderlyID:     app.ElderlyID,
		ApplicationID: app.ID,
		Stage:         models.StageActiveRelationship,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationStatusApproved).
			Updates(map[string]interface{}{
				"status":     models.ApplicationStatusAccepted,
				"decided_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Status moved under us; surface as a stale-state miss
			return ErrApplicationNotFound
		}
		return tx.Create(rel).Error
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *RelationshipRepositoryImpl) WithdrawCAS(relationshipID string, withdrawal *models.Withdrawal) (bool, error) {
	applied := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Relationship{}).
			Where("id = ? AND stage = ?", relationshipID, models.StageActiveRelationship).
			Update("stage", models.StageWithdrawnCoolingOff)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Leave applied=false; the caller decides whether this is an
			// idempotent retry or a genuine conflict.
			return nil
		}
		applied = true
		return tx.Create(withdrawal).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *RelationshipRepositoryImpl) ListWithdrawalsToNotify(now time.Time) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.
		Where("cooling_off_until <= ? AND parties_notified = ?", now, false).
		Find(&withdrawals).Error
	return withdrawals, err
}

func (r *RelationshipRepositoryImpl) MarkWithdrawalNotified(withdrawalID string) error {
	return r.db.Model(&models.Withdrawal{}).
		Where("id = ?", withdrawalID).
		Update("parties_notified", true).Error
}
