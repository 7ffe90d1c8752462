package chat

import "time"

type DialogParticipant struct {
	ID         string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DialogID   string     `gorm:"type:uuid;not null;index:idx_dialog_user,unique" json:"dialog_id"`
	UserID     string     `gorm:"type:uuid;not null;index:idx_dialog_user,unique" json:"user_id"`
	JoinedAt   time.Time  `gorm:"default:now()" json:"joined_at"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

func (DialogParticipant) TableName() string {
	return "chat.dialog_participants"
}
