package models

import "time"

// CoolingOffPeriod is the mandatory window after a withdrawal during which
// the same two users cannot re-form a pairing.
const CoolingOffPeriod = 24 * time.Hour

// Relationship is the active pairing created from an accepted application.
// Its stage moves exactly once: active_relationship -> withdrawn_cooling_off.
// A withdrawn relationship is never reactivated; re-engagement requires a
// new application and a new relationship row.
type Relationship struct {
	BaseModel
	YouthID       string `gorm:"type:uuid;not null;index" json:"youth_id"`
	ElderlyID     string `gorm:"type:uuid;not null;index" json:"elderly_id"`
	ApplicationID string `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	Stage         Stage  `gorm:"type:varchar(40);default:'active_relationship';index" json:"stage"`

	// Relations
	Youth      *User       `gorm:"foreignKey:YouthID" json:"youth,omitempty"`
	Elderly    *User       `gorm:"foreignKey:ElderlyID" json:"elderly,omitempty"`
	Withdrawal *Withdrawal `gorm:"foreignKey:RelationshipID" json:"withdrawal,omitempty"`
}

// IsParty reports whether userID is one of the paired users.
func (r *Relationship) IsParty(userID string) bool {
	return r.YouthID == userID || r.ElderlyID == userID
}

// CounterpartOf returns the other party's user ID, empty when userID is not
// a party at all.
func (r *Relationship) CounterpartOf(userID string) string {
	switch userID {
	case r.YouthID:
		return r.ElderlyID
	case r.ElderlyID:
		return r.YouthID
	}
	return ""
}

// Withdrawal records the end of a relationship. Immutable once created;
// CoolingOffUntil is always WithdrawnAt + CoolingOffPeriod.
type Withdrawal struct {
	BaseModel
	RelationshipID  string    `gorm:"type:uuid;not null;uniqueIndex" json:"relationship_id"`
	InitiatorID     string    `gorm:"type:uuid;not null" json:"initiator_id"`
	Reason          *string   `gorm:"type:text" json:"reason,omitempty"`
	WithdrawnAt     time.Time `gorm:"not null" json:"withdrawn_at"`
	CoolingOffUntil time.Time `gorm:"not null;index" json:"cooling_off_until"`
	PartiesNotified bool      `gorm:"default:false" json:"-"`
}

// CoolingOffActive reports whether the re-engagement block is still in force
// at the given instant.
func (w *Withdrawal) CoolingOffActive(now time.Time) bool {
	return now.Before(w.CoolingOffUntil)
}
