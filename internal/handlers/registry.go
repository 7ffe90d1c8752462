package handlers

import (
	"agelink_backend/internal/services"
	"agelink_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Application  *ApplicationHandler
	Relationship *RelationshipHandler
	Chat         *ChatHandler
	Entry        *EntryHandler
	Notification *NotificationHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, container.AuthService),
		Profile:      NewProfileHandler(base, container.ProfileService),
		Application:  NewApplicationHandler(base, container.ApplicationService),
		Relationship: NewRelationshipHandler(base, container.RelationshipService),
		Chat:         NewChatHandler(base, container.ChatAccessService, container.ChatService),
		Entry:        NewEntryHandler(base, container.GateService),
		Notification: NewNotificationHandler(base, container.NotificationService),
	}
}
