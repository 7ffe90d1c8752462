package models

// AvatarType is the discriminator of the stored avatar selection. Only
// "default" (preset image/emoji by index) is currently supported; an unset
// or unknown type falls back to the role default at render time.
type AvatarType string

const AvatarTypeDefault AvatarType = "default"

// AvatarMeta is the persisted avatar selection shape. A nil AvatarMeta on a
// profile means the user never picked one.
type AvatarMeta struct {
	Type                AvatarType `json:"type"`
	SelectedAvatarIndex int        `json:"selected_avatar_index"`
}

type Profile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName string `gorm:"type:varchar(100)" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	City        string `gorm:"type:varchar(100)" json:"city"`
	BirthYear   int    `json:"birth_year"`
	Phone       string `gorm:"type:varchar(30)" json:"phone,omitempty"`

	// Flattened avatar_meta columns
	AvatarType  *AvatarType `gorm:"type:varchar(20)" json:"avatar_type,omitempty"`
	AvatarIndex *int        `json:"avatar_index,omitempty"`
}

// AvatarMeta reassembles the stored avatar selection, nil when unset.
func (p *Profile) AvatarMeta() *AvatarMeta {
	if p == nil || p.AvatarType == nil || p.AvatarIndex == nil {
		return nil
	}
	return &AvatarMeta{
		Type:                *p.AvatarType,
		SelectedAvatarIndex: *p.AvatarIndex,
	}
}

// IsComplete reports whether the profile has every field required to enter
// the main flow. Kept in one place so the gate and the profile service agree.
func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}
	return p.DisplayName != "" && p.City != "" && p.BirthYear > 0
}
