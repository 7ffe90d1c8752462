package services

import (
	"errors"

	"agelink_backend/internal/auth"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

// GateService decides where a user lands at process entry: login when
// unauthenticated, profile setup when the profile is incomplete, otherwise
// the main flow with the current lifecycle stage attached. The verdict is
// computed fresh on every call; authentication and profile completeness can
// change out of band (admin-forced logout, admin edits).
type GateService interface {
	ResolveEntryRoute(claims *auth.Claims) (*dto.EntryRoute, error)
}

type gateService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	stages      StageService
}

func NewGateService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	stages StageService,
) GateService {
	return &gateService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		stages:      stages,
	}
}

func (s *gateService) ResolveEntryRoute(claims *auth.Claims) (*dto.EntryRoute, error) {
	if claims == nil || claims.UserID == "" {
		return &dto.EntryRoute{Route: dto.RouteLogin}, nil
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Token refers to a deleted account; force re-authentication
			return &dto.EntryRoute{Route: dto.RouteLogin}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	if !s.profileComplete(user) {
		return &dto.EntryRoute{Route: dto.RouteProfileSetup}, nil
	}

	// Admins have no pairing lifecycle; land them straight in the main flow
	if user.Role == models.UserRoleAdmin {
		return &dto.EntryRoute{Route: dto.RouteMain}, nil
	}

	stage, stageCtx, err := s.stages.CurrentStage(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	route := &dto.EntryRoute{
		Route: dto.RouteMain,
		Stage: stage,
	}
	if stageCtx != nil {
		route.StageContext = *stageCtx
	}
	return route, nil
}

// profileComplete cross-checks the denormalized flag against the profile
// itself so an out-of-band profile edit cannot leave the flag lying.
func (s *gateService) profileComplete(user *models.User) bool {
	if !user.ProfileCompleted {
		return false
	}

	profile := user.Profile
	if profile == nil {
		loaded, err := s.profileRepo.FindByUserID(user.ID)
		if err != nil {
			return false
		}
		profile = loaded
	}
	return profile.IsComplete()
}
