package dto

import "agelink_backend/internal/models"

type SubmitApplicationRequest struct {
	ElderlyID string  `json:"elderly_id" validate:"required,uuid4"`
	Message   *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// ReviewApplicationRequest is the admin review verdict.
type ReviewApplicationRequest struct {
	Approve bool `json:"approve"`
}

// DecideApplicationRequest is the elderly user's decision on an
// admin-approved application.
type DecideApplicationRequest struct {
	Accept bool `json:"accept"`
}

type ApplicationResponse struct {
	Application *models.Application `json:"application"`
	// RelationshipID is set when acceptance promoted the application.
	RelationshipID string `json:"relationship_id,omitempty"`
}
