package services

import (
	"errors"

	"agelink_backend/internal/models"
	"agelink_backend/internal/models/chat"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

// ChatAccessService decides which conversation surface to present for a
// chat entry: an explicit application or relationship conversation, or the
// stage-driven default when no identifier is supplied.
type ChatAccessService interface {
	ResolveAccess(userID, applicationID, relationshipID string) (*dto.ChatSurface, error)
}

type chatAccessService struct {
	applicationRepo  repositories.ApplicationRepository
	relationshipRepo repositories.RelationshipRepository
	chatRepo         repositories.ChatRepository
	stages           StageService
}

func NewChatAccessService(
	applicationRepo repositories.ApplicationRepository,
	relationshipRepo repositories.RelationshipRepository,
	chatRepo repositories.ChatRepository,
	stages StageService,
) ChatAccessService {
	return &chatAccessService{
		applicationRepo:  applicationRepo,
		relationshipRepo: relationshipRepo,
		chatRepo:         chatRepo,
		stages:           stages,
	}
}

// ResolveAccess folds the optional identifiers into a single tagged target
// and dispatches on it. Explicit identifiers always win over the
// stage-inferred default; an application identifier outranks a relationship
// identifier when a caller supplies both.
func (s *chatAccessService) ResolveAccess(userID, applicationID, relationshipID string) (*dto.ChatSurface, error) {
	target := dto.ResolveChatTarget(applicationID, relationshipID)

	switch target.Kind {
	case dto.ChatTargetApplication:
		return s.applicationSurface(userID, target.ID)
	case dto.ChatTargetRelationship:
		return s.relationshipSurface(userID, target.ID)
	default:
		return s.defaultSurface(userID)
	}
}

// applicationSurface presents the pre-match conversation. A missing
// application and a caller who is not a party both read as not-found so the
// endpoint does not leak whether a foreign application exists.
func (s *chatAccessService) applicationSurface(userID, applicationID string) (*dto.ChatSurface, error) {
	app, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !app.IsParty(userID) {
		return nil, apperrors.ErrNotFound(repositories.ErrApplicationNotFound)
	}

	dialog, err := s.chatRepo.FindDialogByApplication(app.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrDialogNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.ChatSurface{
		Kind:   dto.ChatTargetApplication,
		Dialog: dialog,
		Capabilities: dto.ChatCapabilities{
			CanSendMessages: app.IsOpen(),
			BondingFeatures: false,
		},
	}, nil
}

// relationshipSurface presents the relationship conversation. Bonding
// features unlock only while the relationship is active; a withdrawn
// conversation stays readable but closes for writing.
func (s *chatAccessService) relationshipSurface(userID, relationshipID string) (*dto.ChatSurface, error) {
	rel, err := s.relationshipRepo.FindByID(relationshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrRelationshipNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !rel.IsParty(userID) {
		return nil, apperrors.ErrNotAParty
	}

	dialog, err := s.chatRepo.FindDialogByRelationship(rel.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrDialogNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	active := rel.Stage == models.StageActiveRelationship
	return &dto.ChatSurface{
		Kind:   dto.ChatTargetRelationship,
		Dialog: dialog,
		Capabilities: dto.ChatCapabilities{
			CanSendMessages: active,
			BondingFeatures: active,
		},
	}, nil
}

// defaultSurface is the stage-driven fallback when the caller supplied no
// identifier: pre-match conversations while an application is in flight, a
// redirect to the single relationship conversation when active, an empty
// list otherwise.
func (s *chatAccessService) defaultSurface(userID string) (*dto.ChatSurface, error) {
	stage, stageCtx, err := s.stages.CurrentStage(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	switch stage {
	case models.StageApplicationPending, models.StageApplicationApproved:
		kind := chat.DialogKindApplication
		dialogs, err := s.chatRepo.ListDialogsForUser(userID, &kind)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return &dto.ChatSurface{
			Kind:    dto.ChatTargetList,
			Dialogs: dialogs,
			Capabilities: dto.ChatCapabilities{
				CanSendMessages: true,
			},
		}, nil

	case models.StageActiveRelationship:
		surface, err := s.relationshipSurface(userID, stageCtx.RelationshipID)
		if err != nil {
			return nil, err
		}
		surface.RedirectTo = surface.Dialog.ID
		return surface, nil

	default:
		// Pre-match with no history, or cooling off: nothing to list.
		return &dto.ChatSurface{
			Kind:    dto.ChatTargetList,
			Dialogs: []chat.Dialog{},
		}, nil
	}
}
