package models

type NotificationType string

const (
	NotificationApplicationReviewed NotificationType = "application_reviewed"
	NotificationApplicationDecided  NotificationType = "application_decided"
	NotificationRelationshipStarted NotificationType = "relationship_started"
	NotificationWithdrawal          NotificationType = "withdrawal"
	NotificationCoolingOffEnded     NotificationType = "cooling_off_ended"
	NotificationNewMessage          NotificationType = "new_message"
)

type Notification struct {
	BaseModel
	UserID string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title  string           `gorm:"type:varchar(200);not null" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	IsRead bool             `gorm:"default:false;index" json:"is_read"`

	// Optional references back to the triggering entity
	ApplicationID  *string `gorm:"type:uuid" json:"application_id,omitempty"`
	RelationshipID *string `gorm:"type:uuid" json:"relationship_id,omitempty"`
}
