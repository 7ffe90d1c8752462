package repositories

import (
	"errors"
	"time"

	"agelink_backend/internal/models/chat"

	"gorm.io/gorm"
)

var ErrDialogNotFound = errors.New("dialog not found")

type ChatRepository interface {
	CreateDialog(dialog *chat.Dialog, participantIDs []string) error
	FindDialogByID(id string) (*chat.Dialog, error)
	FindDialogByApplication(applicationID string) (*chat.Dialog, error)
	FindDialogByRelationship(relationshipID string) (*chat.Dialog, error)
	// ListDialogsForUser lists the user's dialogs, optionally filtered by kind.
	ListDialogsForUser(userID string, kind *chat.DialogKind) ([]chat.Dialog, error)
	IsParticipant(dialogID, userID string) (bool, error)
	ListParticipantIDs(dialogID string) ([]string, error)
	CreateMessage(message *chat.Message) error
	ListMessages(dialogID string, limit, offset int) ([]chat.Message, error)
	MarkRead(dialogID, userID string) error
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) CreateDialog(dialog *chat.Dialog, participantIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dialog).Error; err != nil {
			return err
		}
		for _, userID := range participantIDs {
			participant := &chat.DialogParticipant{
				DialogID: dialog.ID,
				UserID:   userID,
			}
			if err := tx.Create(participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ChatRepositoryImpl) FindDialogByID(id string) (*chat.Dialog, error) {
	var dialog chat.Dialog
	err := r.db.Preload("Participants").Preload("LastMessage").
		First(&dialog, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *ChatRepositoryImpl) FindDialogByApplication(applicationID string) (*chat.Dialog, error) {
	var dialog chat.Dialog
	err := r.db.Preload("Participants").Preload("LastMessage").
		First(&dialog, "application_id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *ChatRepositoryImpl) FindDialogByRelationship(relationshipID string) (*chat.Dialog, error) {
	var dialog chat.Dialog
	err := r.db.Preload("Participants").Preload("LastMessage").
		First(&dialog, "relationship_id = ?", relationshipID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *ChatRepositoryImpl) ListDialogsForUser(userID string, kind *chat.DialogKind) ([]chat.Dialog, error) {
	var dialogs []chat.Dialog
	query := r.db.Preload("Participants").Preload("LastMessage").
		Joins("JOIN chat.dialog_participants dp ON dp.dialog_id = \"chat\".\"dialogs\".id").
		Where("dp.user_id = ?", userID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}
	err := query.Order("updated_at DESC").Find(&dialogs).Error
	return dialogs, err
}

func (r *ChatRepositoryImpl) IsParticipant(dialogID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&chat.DialogParticipant{}).
		Where("dialog_id = ? AND user_id = ?", dialogID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepositoryImpl) ListParticipantIDs(dialogID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&chat.DialogParticipant{}).
		Where("dialog_id = ?", dialogID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ChatRepositoryImpl) CreateMessage(message *chat.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&chat.Dialog{}).
			Where("id = ?", message.DialogID).
			Updates(map[string]interface{}{
				"last_message_id": message.ID,
				"updated_at":      time.Now(),
			}).Error
	})
}

func (r *ChatRepositoryImpl) ListMessages(dialogID string, limit, offset int) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.Where("dialog_id = ?", dialogID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) MarkRead(dialogID, userID string) error {
	return r.db.Model(&chat.DialogParticipant{}).
		Where("dialog_id = ? AND user_id = ?", dialogID, userID).
		Update("last_read_at", time.Now()).Error
}
