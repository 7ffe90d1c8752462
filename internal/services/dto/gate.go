package dto

import "agelink_backend/internal/models"

// Route is the screen a user should land on at process entry.
type Route string

const (
	RouteLogin        Route = "login"
	RouteProfileSetup Route = "profile-setup"
	RouteMain         Route = "main"
)

// StageContext carries the identifiers behind the resolved stage so the
// client can open the right surface without a second round trip.
type StageContext struct {
	ApplicationID   string `json:"application_id,omitempty"`
	RelationshipID  string `json:"relationship_id,omitempty"`
	CoolingOffUntil string `json:"cooling_off_until,omitempty"`
}

// EntryRoute is the gate's verdict, re-evaluated on every cold start and
// never cached server-side.
type EntryRoute struct {
	Route Route        `json:"route"`
	Stage models.Stage `json:"stage,omitempty"`
	StageContext
}
