package services

import (
	"testing"
	"time"

	"agelink_backend/internal/models"
	"agelink_backend/internal/services/dto"
	"agelink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPairingLifecycle_GoldenPath walks one pairing through its whole life:
// submit -> admin approval -> elderly acceptance -> active relationship with
// chat -> withdrawal -> cooling-off -> re-application after the window.
func TestPairingLifecycle_GoldenPath(t *testing.T) {
	users := newFakeUserRepo()
	applications := newFakeApplicationRepo()
	relationships := newFakeRelationshipRepo()
	chats := newFakeChatRepo()
	notifications := &notificationRecorder{}
	relationships.apps = applications

	stages := NewStageService(applications, relationships)
	applicationService := NewApplicationService(applications, relationships, users, chats, notifications)
	relationshipService := NewRelationshipService(relationships, notifications)
	chatAccess := NewChatAccessService(applications, relationships, chats, stages)

	youth := users.addUser(models.UserRoleYouth)
	elderly := users.addUser(models.UserRoleElderly)
	admin := users.addUser(models.UserRoleAdmin)

	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	withFrozenClock(t, t0)

	// Submit: both parties move to application_pending and the pre-match
	// conversation opens.
	app, err := applicationService.SubmitApplication(youth.ID, &dto.SubmitApplicationRequest{ElderlyID: elderly.ID})
	require.NoError(t, err)

	stage, _, err := stages.CurrentStage(youth.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplicationPending, stage)

	surface, err := chatAccess.ResolveAccess(youth.ID, app.ID, "")
	require.NoError(t, err)
	assert.True(t, surface.Capabilities.CanSendMessages)

	// Admin approves: awaiting the elderly user's decision.
	_, err = applicationService.ReviewApplication(admin.ID, app.ID, true)
	require.NoError(t, err)

	stage, _, err = stages.CurrentStage(elderly.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplicationApproved, stage)

	// Elderly accepts: relationship goes active, default chat surface
	// redirects straight to the relationship conversation.
	decision, err := applicationService.DecideApplication(elderly.ID, app.ID, true)
	require.NoError(t, err)
	relationshipID := decision.RelationshipID
	require.NotEmpty(t, relationshipID)

	stage, stageCtx, err := stages.CurrentStage(youth.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageActiveRelationship, stage)
	assert.Equal(t, relationshipID, stageCtx.RelationshipID)

	surface, err = chatAccess.ResolveAccess(youth.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.ChatTargetRelationship, surface.Kind)
	assert.NotEmpty(t, surface.RedirectTo)
	assert.True(t, surface.Capabilities.BondingFeatures)

	// Withdrawal: stage flips for both parties, window stamped at +24h.
	withdrawal, err := relationshipService.Withdraw(relationshipID, elderly.ID, &dto.WithdrawRequest{})
	require.NoError(t, err)
	assert.Equal(t, t0.Add(24*time.Hour), withdrawal.CoolingOffUntil)

	stage, _, err = stages.CurrentStage(youth.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageWithdrawnCoolingOff, stage)

	// Re-engagement inside the window is blocked.
	_, err = applicationService.SubmitApplication(youth.ID, &dto.SubmitApplicationRequest{ElderlyID: elderly.ID})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCoolingOffActive, appErrorCode(t, err))

	// After the window both users read as pre-match and may start over.
	withFrozenClock(t, t0.Add(25*time.Hour))
	stage, _, err = stages.CurrentStage(youth.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePreMatch, stage)

	again, err := applicationService.SubmitApplication(youth.ID, &dto.SubmitApplicationRequest{ElderlyID: elderly.ID})
	require.NoError(t, err)
	assert.NotEqual(t, app.ID, again.ID, "re-engagement creates a fresh application")
}
