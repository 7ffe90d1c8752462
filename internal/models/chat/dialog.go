package chat

import "time"

// DialogKind separates pre-match conversations (scoped to an application)
// from relationship conversations (scoped to a relationship).
type DialogKind string

const (
	DialogKindApplication  DialogKind = "application"
	DialogKindRelationship DialogKind = "relationship"
)

type Dialog struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Kind           DialogKind `gorm:"type:varchar(20);not null" json:"kind"`
	ApplicationID  *string    `gorm:"type:uuid;uniqueIndex" json:"application_id,omitempty"`
	RelationshipID *string    `gorm:"type:uuid;uniqueIndex" json:"relationship_id,omitempty"`
	LastMessageID  *string    `gorm:"index" json:"last_message_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Participants []DialogParticipant `gorm:"foreignKey:DialogID" json:"participants,omitempty"`
	LastMessage  *Message            `gorm:"foreignKey:LastMessageID" json:"last_message,omitempty"`
}

func (Dialog) TableName() string {
	return "chat.dialogs"
}
