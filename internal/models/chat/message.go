package chat

import "time"

type Message struct {
	ID        string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DialogID  string     `gorm:"type:uuid;not null;index" json:"dialog_id"`
	SenderID  string     `gorm:"type:uuid;not null;index" json:"sender_id"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

func (Message) TableName() string {
	return "chat.messages"
}
