package models

import "time"

// Application is a youth-to-elderly pairing proposal. Status only moves
// forward: pending_review -> approved -> (accepted | rejected), with
// rejection possible at either review step. Acceptance promotes the
// application to a Relationship.
type Application struct {
	BaseModel
	YouthID   string            `gorm:"type:uuid;not null;index" json:"youth_id"`
	ElderlyID string            `gorm:"type:uuid;not null;index" json:"elderly_id"`
	Message   *string           `gorm:"type:text" json:"message,omitempty"`
	Status    ApplicationStatus `gorm:"type:varchar(30);default:'pending_review';index" json:"status"`

	// Admin review
	ReviewedBy *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	// Elderly decision
	DecidedAt *time.Time `json:"decided_at,omitempty"`

	// Relations
	Youth   *User `gorm:"foreignKey:YouthID" json:"youth,omitempty"`
	Elderly *User `gorm:"foreignKey:ElderlyID" json:"elderly,omitempty"`
}

// IsParty reports whether userID is one of the two users the application
// pairs. Admin reviewers are not parties.
func (a *Application) IsParty(userID string) bool {
	return a.YouthID == userID || a.ElderlyID == userID
}

// IsOpen reports whether the application still occupies its youth's
// lifecycle slot (i.e. it has not reached a terminal status).
func (a *Application) IsOpen() bool {
	return !a.Status.IsTerminal()
}
