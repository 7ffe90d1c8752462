package models

type UserStatus string
type UserRole string
type ApplicationStatus string
type Stage string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleYouth   UserRole = "youth"
	UserRoleElderly UserRole = "elderly"
	UserRoleAdmin   UserRole = "admin"

	ApplicationStatusPendingReview ApplicationStatus = "pending_review"
	ApplicationStatusApproved      ApplicationStatus = "approved"
	ApplicationStatusRejected      ApplicationStatus = "rejected"
	ApplicationStatusAccepted      ApplicationStatus = "accepted"
)

// Stage is the lifecycle position of a user's current pairing. The first
// three stages are derived from application records, the last two from the
// relationship record itself.
const (
	StagePreMatch            Stage = "pre_match"
	StageApplicationPending  Stage = "application_pending"
	StageApplicationApproved Stage = "application_approved_awaiting_decision"
	StageActiveRelationship  Stage = "active_relationship"
	StageWithdrawnCoolingOff Stage = "withdrawn_cooling_off"
)

// applicationTransitions is the forward-only status machine for applications.
// pending_review moves under admin review, approved moves under the elderly
// user's decision. Rejection is terminal; acceptance promotes the application
// to a relationship.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPendingReview: {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:      {ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusRejected:      {},
	ApplicationStatusAccepted:      {},
}

// CanTransition reports whether an application status change is legal.
func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	for _, next := range applicationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}
