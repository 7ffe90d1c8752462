package dto

import (
	"agelink_backend/internal/avatar"
	"agelink_backend/internal/models"
)

// AvatarSelection mirrors the persisted avatar_meta shape.
type AvatarSelection struct {
	Type                string `json:"type" validate:"required,oneof=default"`
	SelectedAvatarIndex int    `json:"selected_avatar_index" validate:"min=0"`
}

type UpdateProfileRequest struct {
	DisplayName string           `json:"display_name" validate:"required,min=2,max=100"`
	Bio         string           `json:"bio" validate:"max=2000"`
	City        string           `json:"city" validate:"required,max=100"`
	BirthYear   int              `json:"birth_year" validate:"required,min=1900,max=2100"`
	Phone       string           `json:"phone" validate:"max=30"`
	Avatar      *AvatarSelection `json:"avatar_meta,omitempty"`
}

type ProfileResponse struct {
	Profile *models.Profile `json:"profile"`
	Avatar  avatar.Avatar   `json:"avatar"`
}
