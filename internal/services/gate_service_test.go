package services

import (
	"testing"

	"agelink_backend/internal/auth"
	"agelink_backend/internal/models"
	"agelink_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateFixture struct {
	users         *fakeUserRepo
	profiles      *fakeProfileRepo
	applications  *fakeApplicationRepo
	relationships *fakeRelationshipRepo
	service       GateService
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		users:         newFakeUserRepo(),
		profiles:      newFakeProfileRepo(),
		applications:  newFakeApplicationRepo(),
		relationships: newFakeRelationshipRepo(),
	}
	stages := NewStageService(f.applications, f.relationships)
	f.service = NewGateService(f.users, f.profiles, stages)
	return f
}

func (f *gateFixture) addCompleteUser(role models.UserRole) *models.User {
	user := f.users.addUser(role)
	user.ProfileCompleted = true
	profile := &models.Profile{
		UserID:      user.ID,
		DisplayName: "Test User",
		City:        "Riga",
		BirthYear:   1960,
	}
	_ = f.profiles.Create(profile)
	user.Profile = profile
	return user
}

func claimsFor(user *models.User) *auth.Claims {
	return &auth.Claims{UserID: user.ID, Role: string(user.Role)}
}

func TestResolveEntryRoute_NoSessionGoesToLogin(t *testing.T) {
	t.Parallel()
	f := newGateFixture()

	route, err := f.service.ResolveEntryRoute(nil)
	require.NoError(t, err)
	assert.Equal(t, dto.RouteLogin, route.Route)
}

func TestResolveEntryRoute_DeletedAccountGoesToLogin(t *testing.T) {
	t.Parallel()
	f := newGateFixture()

	route, err := f.service.ResolveEntryRoute(&auth.Claims{UserID: "gone"})
	require.NoError(t, err)
	assert.Equal(t, dto.RouteLogin, route.Route)
}

func TestResolveEntryRoute_IncompleteProfileGoesToSetup(t *testing.T) {
	t.Parallel()
	f := newGateFixture()
	user := f.users.addUser(models.UserRoleYouth)

	route, err := f.service.ResolveEntryRoute(claimsFor(user))
	require.NoError(t, err)
	assert.Equal(t, dto.RouteProfileSetup, route.Route)
}

func TestResolveEntryRoute_StaleCompletedFlagGoesToSetup(t *testing.T) {
	t.Parallel()
	f := newGateFixture()
	user := f.users.addUser(models.UserRoleYouth)
	// Flag says complete, but the profile itself is missing a required field.
	user.ProfileCompleted = true
	profile := &models.Profile{UserID: user.ID, DisplayName: "Half Done"}
	_ = f.profiles.Create(profile)
	user.Profile = profile

	route, err := f.service.ResolveEntryRoute(claimsFor(user))
	require.NoError(t, err)
	assert.Equal(t, dto.RouteProfileSetup, route.Route)
}

func TestResolveEntryRoute_AdminSkipsPairingStage(t *testing.T) {
	t.Parallel()
	f := newGateFixture()
	admin := f.addCompleteUser(models.UserRoleAdmin)

	route, err := f.service.ResolveEntryRoute(claimsFor(admin))
	require.NoError(t, err)
	assert.Equal(t, dto.RouteMain, route.Route)
	assert.Empty(t, route.Stage)
}

func TestResolveEntryRoute_MainWithStageContext(t *testing.T) {
	t.Parallel()
	f := newGateFixture()
	youth := f.addCompleteUser(models.UserRoleYouth)

	route, err := f.service.ResolveEntryRoute(claimsFor(youth))
	require.NoError(t, err)
	assert.Equal(t, dto.RouteMain, route.Route)
	assert.Equal(t, models.StagePreMatch, route.Stage)

	elderly := f.addCompleteUser(models.UserRoleElderly)
	rel := f.relationships.addActive(youth.ID, elderly.ID)

	route, err = f.service.ResolveEntryRoute(claimsFor(youth))
	require.NoError(t, err)
	assert.Equal(t, dto.RouteMain, route.Route)
	assert.Equal(t, models.StageActiveRelationship, route.Stage)
	assert.Equal(t, rel.ID, route.RelationshipID)
}
