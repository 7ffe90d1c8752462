package services

// ServiceContainer bundles every service for wiring in internal/app.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	StageService        StageService
	ApplicationService  ApplicationService
	RelationshipService RelationshipService
	ChatAccessService   ChatAccessService
	ChatService         ChatService
	NotificationService NotificationService
	GateService         GateService
}
