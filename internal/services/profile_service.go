package services

import (
	"errors"

	"agelink_backend/internal/avatar"
	"agelink_backend/internal/models"
	"agelink_backend/internal/repositories"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"
)

type ProfileService interface {
	GetMyProfile(userID string) (*dto.ProfileResponse, error)
	GetUserProfile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	// ListElderly powers pre-match discovery for youth users.
	ListElderly(limit, offset int) ([]dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *profileService) GetMyProfile(userID string) (*dto.ProfileResponse, error) {
	return s.GetUserProfile(userID)
}

func (s *profileService) GetUserProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: user.ID}
	}

	return &dto.ProfileResponse{
		Profile: profile,
		Avatar:  avatar.Resolve(profile.AvatarMeta(), user.Role),
	}, nil
}

// UpdateProfile writes the profile and keeps the user's denormalized
// completeness flag in sync, so the entry gate stays a cheap single read.
func (s *profileService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	isNew := false
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(err)
		}
		profile = &models.Profile{UserID: userID}
		isNew = true
	}

	profile.DisplayName = req.DisplayName
	profile.Bio = req.Bio
	profile.City = req.City
	profile.BirthYear = req.BirthYear
	profile.Phone = req.Phone

	if req.Avatar != nil {
		if req.Avatar.SelectedAvatarIndex >= avatar.SelectionCount() {
			return nil, apperrors.ValidationError(map[string]string{
				"avatar_meta.selected_avatar_index": "selection index out of range",
			})
		}
		avatarType := models.AvatarType(req.Avatar.Type)
		index := req.Avatar.SelectedAvatarIndex
		profile.AvatarType = &avatarType
		profile.AvatarIndex = &index
	}

	if isNew {
		err = s.profileRepo.Create(profile)
	} else {
		err = s.profileRepo.Update(profile)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if completed := profile.IsComplete(); completed != user.ProfileCompleted {
		if err := s.userRepo.SetProfileCompleted(userID, completed); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return &dto.ProfileResponse{
		Profile: profile,
		Avatar:  avatar.Resolve(profile.AvatarMeta(), user.Role),
	}, nil
}

func (s *profileService) ListElderly(limit, offset int) ([]dto.ProfileResponse, error) {
	users, err := s.userRepo.ListByRole(models.UserRoleElderly, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		user := &users[i]
		if !user.ProfileCompleted || user.Profile == nil {
			continue
		}
		responses = append(responses, dto.ProfileResponse{
			Profile: user.Profile,
			Avatar:  avatar.Resolve(user.Profile.AvatarMeta(), user.Role),
		})
	}
	return responses, nil
}
