package dto

import "agelink_backend/internal/models"

type WithdrawRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

type WithdrawalResponse struct {
	Withdrawal *models.Withdrawal `json:"withdrawal"`
}

type RelationshipResponse struct {
	Relationship *models.Relationship `json:"relationship"`
}
