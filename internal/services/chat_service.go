package services

import (
	"errors"

	"agelink_backend/internal/models"
	"agelink_backend/internal/models/chat"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

// ChatService handles message traffic inside a dialog the caller already
// has access to. Surface selection lives in ChatAccessService.
type ChatService interface {
	GetDialog(userID, dialogID string) (*chat.Dialog, error)
	SendMessage(userID, dialogID string, req *dto.SendMessageRequest) (*chat.Message, error)
	GetMessages(userID, dialogID string, limit, offset int) ([]chat.Message, error)
	MarkRead(userID, dialogID string) error
	ListParticipantIDs(dialogID string) ([]string, error)
}

type chatService struct {
	chatRepo         repositories.ChatRepository
	applicationRepo  repositories.ApplicationRepository
	relationshipRepo repositories.RelationshipRepository
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	applicationRepo repositories.ApplicationRepository,
	relationshipRepo repositories.RelationshipRepository,
) ChatService {
	return &chatService{
		chatRepo:         chatRepo,
		applicationRepo:  applicationRepo,
		relationshipRepo: relationshipRepo,
	}
}

func (s *chatService) GetDialog(userID, dialogID string) (*chat.Dialog, error) {
	dialog, err := s.authorizedDialog(userID, dialogID)
	if err != nil {
		return nil, err
	}
	return dialog, nil
}

// SendMessage appends a message after confirming the dialog is still
// writable: an application dialog closes when the application reaches a
// terminal status, a relationship dialog when the relationship is withdrawn.
func (s *chatService) SendMessage(userID, dialogID string, req *dto.SendMessageRequest) (*chat.Message, error) {
	dialog, err := s.authorizedDialog(userID, dialogID)
	if err != nil {
		return nil, err
	}

	if err := s.checkWritable(dialog); err != nil {
		return nil, err
	}

	message := &chat.Message{
		DialogID: dialog.ID,
		SenderID: userID,
		Text:     req.Text,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return message, nil
}

func (s *chatService) GetMessages(userID, dialogID string, limit, offset int) ([]chat.Message, error) {
	if _, err := s.authorizedDialog(userID, dialogID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(dialogID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messages, nil
}

func (s *chatService) MarkRead(userID, dialogID string) error {
	if _, err := s.authorizedDialog(userID, dialogID); err != nil {
		return err
	}
	if err := s.chatRepo.MarkRead(dialogID, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) ListParticipantIDs(dialogID string) ([]string, error) {
	ids, err := s.chatRepo.ListParticipantIDs(dialogID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return ids, nil
}

func (s *chatService) authorizedDialog(userID, dialogID string) (*chat.Dialog, error) {
	dialog, err := s.chatRepo.FindDialogByID(dialogID)
	if err != nil {
		if errors.Is(err, repositories.ErrDialogNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	isParticipant, err := s.chatRepo.IsParticipant(dialogID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !isParticipant {
		return nil, apperrors.ErrNotAParty
	}
	return dialog, nil
}

func (s *chatService) checkWritable(dialog *chat.Dialog) error {
	switch dialog.Kind {
	case chat.DialogKindApplication:
		if dialog.ApplicationID == nil {
			return apperrors.ErrInvalidStatus("chat", "Dialog has no application attached")
		}
		app, err := s.applicationRepo.FindByID(*dialog.ApplicationID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !app.IsOpen() {
			return apperrors.ErrInvalidStatus("chat", "This conversation is closed")
		}
	case chat.DialogKindRelationship:
		if dialog.RelationshipID == nil {
			return apperrors.ErrInvalidStatus("chat", "Dialog has no relationship attached")
		}
		rel, err := s.relationshipRepo.FindByID(*dialog.RelationshipID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if rel.Stage != models.StageActiveRelationship {
			return apperrors.ErrInvalidStatus("chat", "This conversation is closed")
		}
	}
	return nil
}
