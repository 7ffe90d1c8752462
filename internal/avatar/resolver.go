package avatar

import "agelink_backend/internal/models"

// Avatar is a renderable identity: either a bundled image (ImageSource set)
// or an emoji icon, always with a background color.
type Avatar struct {
	ImageSource     string `json:"image_source,omitempty"`
	Icon            string `json:"icon,omitempty"`
	BackgroundColor string `json:"background_color"`
}

// The first len(imageSet) selection indices map to bundled images, the
// remaining ones to emoji. Both lists are append-only: stored indices must
// keep resolving to the same avatar forever.
var imageSet = []string{
	"avatars/preset_01.png",
	"avatars/preset_02.png",
	"avatars/preset_03.png",
	"avatars/preset_04.png",
	"avatars/preset_05.png",
	"avatars/preset_06.png",
}

var emojiSet = []string{
	"🌻", "🌸", "🍀", "🌈", "⭐", "🦋", "🐦", "🌙",
}

// palette is indexed by selection index modulo its size, so the same stored
// index always renders the same color.
var palette = []string{
	"#F9A826",
	"#6FCF97",
	"#56CCF2",
	"#BB6BD9",
	"#EB5757",
	"#F2C94C",
	"#2D9CDB",
}

var roleDefaults = map[models.UserRole]Avatar{
	models.UserRoleElderly: {Icon: "🧓", BackgroundColor: "#F9A826"},
	models.UserRoleYouth:   {Icon: "🧑", BackgroundColor: "#56CCF2"},
	models.UserRoleAdmin:   {Icon: "🛡️", BackgroundColor: "#828282"},
}

// SelectionCount is the number of valid selection indices, exposed for
// request validation when a user picks an avatar.
func SelectionCount() int {
	return len(imageSet) + len(emojiSet)
}

// Resolve maps a stored avatar selection to a renderable avatar. It is total:
// malformed input (nil meta, unknown type, out-of-range index) falls back to
// the role default and never fails.
func Resolve(meta *models.AvatarMeta, role models.UserRole) Avatar {
	if meta == nil || meta.Type != models.AvatarTypeDefault {
		return defaultFor(role)
	}

	idx := meta.SelectedAvatarIndex
	if idx < 0 || idx >= SelectionCount() {
		return defaultFor(role)
	}

	color := palette[idx%len(palette)]
	if idx < len(imageSet) {
		return Avatar{
			ImageSource:     imageSet[idx],
			BackgroundColor: color,
		}
	}
	return Avatar{
		Icon:            emojiSet[idx-len(imageSet)],
		BackgroundColor: color,
	}
}

func defaultFor(role models.UserRole) Avatar {
	if av, ok := roleDefaults[role]; ok {
		return av
	}
	// Unknown role still renders something usable
	return Avatar{Icon: "👤", BackgroundColor: "#828282"}
}
