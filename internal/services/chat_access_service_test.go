package services

import (
	"testing"
	"time"

	"agelink_backend/internal/models"
	"agelink_backend/internal/models/chat"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatAccessFixture struct {
	applications  *fakeApplicationRepo
	relationships *fakeRelationshipRepo
	chats         *fakeChatRepo
	service       ChatAccessService
}

func newChatAccessFixture() *chatAccessFixture {
	f := &chatAccessFixture{
		applications:  newFakeApplicationRepo(),
		relationships: newFakeRelationshipRepo(),
		chats:         newFakeChatRepo(),
	}
	stages := NewStageService(f.applications, f.relationships)
	f.service = NewChatAccessService(f.applications, f.relationships, f.chats, stages)
	return f
}

func (f *chatAccessFixture) addApplication(t *testing.T, youthID, elderlyID string, status models.ApplicationStatus) (*models.Application, *chat.Dialog) {
	t.Helper()
	app := &models.Application{YouthID: youthID, ElderlyID: elderlyID, Status: status}
	require.NoError(t, f.applications.Create(app))

	dialog := &chat.Dialog{Kind: chat.DialogKindApplication, ApplicationID: &app.ID}
	require.NoError(t, f.chats.CreateDialog(dialog, []string{youthID, elderlyID}))
	return app, dialog
}

func (f *chatAccessFixture) addRelationship(t *testing.T, youthID, elderlyID string) (*models.Relationship, *chat.Dialog) {
	t.Helper()
	rel := f.relationships.addActive(youthID, elderlyID)
	dialog := &chat.Dialog{Kind: chat.DialogKindRelationship, RelationshipID: &rel.ID}
	require.NoError(t, f.chats.CreateDialog(dialog, []string{youthID, elderlyID}))
	return rel, dialog
}

func TestResolveAccess_ApplicationIDOutranksRelationshipID(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	app, appDialog := f.addApplication(t, "youth-1", "elderly-1", models.ApplicationStatusPendingReview)
	rel, _ := f.addRelationship(t, "youth-1", "elderly-2")

	surface, err := f.service.ResolveAccess("youth-1", app.ID, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetApplication, surface.Kind)
	assert.Equal(t, appDialog.ID, surface.Dialog.ID)
}

func TestResolveAccess_ApplicationSurfaceWhileOpen(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	app, _ := f.addApplication(t, "youth-1", "elderly-1", models.ApplicationStatusPendingReview)

	surface, err := f.service.ResolveAccess("elderly-1", app.ID, "")
	require.NoError(t, err)
	assert.True(t, surface.Capabilities.CanSendMessages)
	assert.False(t, surface.Capabilities.BondingFeatures, "bonding stays locked before an active relationship")
}

func TestResolveAccess_ApplicationSurfaceClosesOnTerminalStatus(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	app, _ := f.addApplication(t, "youth-1", "elderly-1", models.ApplicationStatusRejected)

	surface, err := f.service.ResolveAccess("youth-1", app.ID, "")
	require.NoError(t, err)
	assert.False(t, surface.Capabilities.CanSendMessages, "a decided application is read-only")
}

func TestResolveAccess_ForeignApplicationReadsAsNotFound(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	app, _ := f.addApplication(t, "youth-1", "elderly-1", models.ApplicationStatusPendingReview)

	// Not-found, not forbidden: the endpoint must not confirm the
	// application exists to an outsider.
	_, err := f.service.ResolveAccess("stranger", app.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, appErrorCode(t, err))
}

func TestResolveAccess_RelationshipSurfaceActive(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	rel, dialog := f.addRelationship(t, "youth-1", "elderly-1")

	surface, err := f.service.ResolveAccess("youth-1", "", rel.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetRelationship, surface.Kind)
	assert.Equal(t, dialog.ID, surface.Dialog.ID)
	assert.True(t, surface.Capabilities.CanSendMessages)
	assert.True(t, surface.Capabilities.BondingFeatures)
}

func TestResolveAccess_WithdrawnRelationshipIsReadOnly(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	rel, _ := f.addRelationship(t, "youth-1", "elderly-1")
	withdrawnAt := time.Now().Add(-time.Hour)
	_, err := f.relationships.WithdrawCAS(rel.ID, &models.Withdrawal{
		RelationshipID: rel.ID, InitiatorID: "youth-1",
		WithdrawnAt: withdrawnAt, CoolingOffUntil: withdrawnAt.Add(models.CoolingOffPeriod),
	})
	require.NoError(t, err)

	surface, err := f.service.ResolveAccess("elderly-1", "", rel.ID)
	require.NoError(t, err, "a withdrawn conversation stays readable")
	assert.False(t, surface.Capabilities.CanSendMessages)
	assert.False(t, surface.Capabilities.BondingFeatures)
}

func TestResolveAccess_ForeignRelationshipIsForbidden(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	rel, _ := f.addRelationship(t, "youth-1", "elderly-1")

	_, err := f.service.ResolveAccess("stranger", "", rel.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, appErrorCode(t, err))
}

func TestResolveAccess_DefaultSurfaceDuringApplication(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	_, dialog := f.addApplication(t, "youth-1", "elderly-1", models.ApplicationStatusApproved)

	surface, err := f.service.ResolveAccess("youth-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetList, surface.Kind)
	require.Len(t, surface.Dialogs, 1)
	assert.Equal(t, dialog.ID, surface.Dialogs[0].ID)
	assert.True(t, surface.Capabilities.CanSendMessages)
}

func TestResolveAccess_DefaultSurfaceRedirectsToActiveRelationship(t *testing.T) {
	t.Parallel()
	f := newChatAccessFixture()
	_, dialog := f.addRelationship(t, "youth-1", "elderly-1")

	surface, err := f.service.ResolveAccess("youth-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetRelationship, surface.Kind)
	assert.Equal(t, dialog.ID, surface.RedirectTo)
	assert.True(t, surface.Capabilities.BondingFeatures)
}

func TestResolveAccess_DefaultSurfaceEmptyForPreMatchAndCoolingOff(t *testing.T) {
	f := newChatAccessFixture()

	// Brand-new user: empty list.
	surface, err := f.service.ResolveAccess("nobody", "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetList, surface.Kind)
	assert.Empty(t, surface.Dialogs)
	assert.False(t, surface.Capabilities.CanSendMessages)

	// Cooling-off user: also an empty list, the withdrawn conversation is
	// reachable only by explicit identifier.
	rel, _ := f.addRelationship(t, "youth-1", "elderly-1")
	withdrawnAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	_, err = f.relationships.WithdrawCAS(rel.ID, &models.Withdrawal{
		RelationshipID: rel.ID, InitiatorID: "youth-1",
		WithdrawnAt: withdrawnAt, CoolingOffUntil: withdrawnAt.Add(models.CoolingOffPeriod),
	})
	require.NoError(t, err)

	withFrozenClock(t, withdrawnAt.Add(time.Hour))
	surface, err = f.service.ResolveAccess("youth-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetList, surface.Kind)
	assert.Empty(t, surface.Dialogs)
}

func TestResolveChatTarget_Precedence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, dto.ChatTarget{Kind: dto.ChatTargetApplication, ID: "a"}, dto.ResolveChatTarget("a", "r"))
	assert.Equal(t, dto.ChatTarget{Kind: dto.ChatTargetRelationship, ID: "r"}, dto.ResolveChatTarget("", "r"))
	assert.Equal(t, dto.ChatTarget{Kind: dto.ChatTargetList}, dto.ResolveChatTarget("", ""))
}
