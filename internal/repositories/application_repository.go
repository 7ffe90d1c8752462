package repositories

import (
	"errors"

	"agelink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id string) (*models.Application, error)
	// FindOpenByYouth returns the youth's current non-terminal application,
	// ErrApplicationNotFound when none exists.
	FindOpenByYouth(youthID string) (*models.Application, error)
	// FindOpenForUser returns the open application the user is a party to,
	// regardless of role.
	FindOpenForUser(userID string) (*models.Application, error)
	FindOpenBetween(youthID, elderlyID string) (*models.Application, error)
	ListByUser(userID string) ([]models.Application, error)
	ListByStatus(status models.ApplicationStatus, limit, offset int) ([]models.Application, int64, error)
	// UpdateStatusCAS applies the status change only if the current status
	// still equals from; reports whether a row was changed.
	UpdateStatusCAS(id string, from, to models.ApplicationStatus, patch map[string]interface{}) (bool, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(app *models.Application) error {
	return r.db.Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var app models.Application
	err := r.db.Preload("Youth.Profile").Preload("Elderly.Profile").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindOpenByYouth(youthID string) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("youth_id = ? AND status IN ?", youthID, openStatuses()).
		Order("created_at DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindOpenForUser(userID string) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("(youth_id = ? OR elderly_id = ?) AND status IN ?", userID, userID, openStatuses()).
		Order("created_at DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindOpenBetween(youthID, elderlyID string) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("youth_id = ? AND elderly_id = ? AND status IN ?",
		youthID, elderlyID, openStatuses()).
		Order("created_at DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListByUser(userID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Youth.Profile").Preload("Elderly.Profile").
		Where("youth_id = ? OR elderly_id = ?", userID, userID).
		Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByStatus(status models.ApplicationStatus, limit, offset int) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	query := r.db.Model(&models.Application{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Youth.Profile").Preload("Elderly.Profile").
		Limit(limit).Offset(offset).Order("created_at ASC").Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusCAS(id string, from, to models.ApplicationStatus, patch map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range patch {
		updates[k] = v
	}

	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func openStatuses() []models.ApplicationStatus {
	return []models.ApplicationStatus{
		models.ApplicationStatusPendingReview,
		models.ApplicationStatusApproved,
	}
}
