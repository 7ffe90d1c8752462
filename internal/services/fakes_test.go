package services

import (
	"sort"
	"time"

	"agelink_backend/internal/models"
	"agelink_backend/internal/models/chat"
	"agelink_backend/internal/repositories"

	"github.com/google/uuid"
)

// In-memory repository fakes. They mirror the query semantics of the gorm
// implementations closely enough to exercise the services, including the
// compare-and-set behavior of status and stage updates.

type fakeUserRepo struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (f *fakeUserRepo) addUser(role models.UserRole) *models.User {
	user := &models.User{
		Role:   role,
		Status: models.UserStatusActive,
	}
	user.ID = uuid.NewString()
	user.Email = user.ID + "@example.com"
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if _, err := f.FindByEmail(user.Email); err == nil {
		return repositories.ErrUserAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetProfileCompleted(userID string, completed bool) error {
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.ProfileCompleted = completed
	return nil
}

func (f *fakeUserRepo) UpdateLastActive(userID string) error { return nil }

func (f *fakeUserRepo) ListByRole(role models.UserRole, limit, offset int) ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	users, _ := f.ListByRole(role, 0, 0)
	return int64(len(users)), nil
}

func (f *fakeUserRepo) CreateRefreshToken(token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return stored, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteUserRefreshTokens(userID string) error {
	for key, token := range f.tokens {
		if token.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Create(profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) Update(profile *models.Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

type fakeApplicationRepo struct {
	apps map[string]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.Application)}
}

func (f *fakeApplicationRepo) Create(app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplicationRepo) FindByID(id string) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationRepo) findOpen(match func(*models.Application) bool) (*models.Application, error) {
	var candidates []*models.Application
	for _, app := range f.apps {
		if app.IsOpen() && match(app) {
			candidates = append(candidates, app)
		}
	}
	if len(candidates) == 0 {
		return nil, repositories.ErrApplicationNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	copied := *candidates[0]
	return &copied, nil
}

func (f *fakeApplicationRepo) FindOpenByYouth(youthID string) (*models.Application, error) {
	return f.findOpen(func(a *models.Application) bool { return a.YouthID == youthID })
}

func (f *fakeApplicationRepo) FindOpenForUser(userID string) (*models.Application, error) {
	return f.findOpen(func(a *models.Application) bool { return a.IsParty(userID) })
}

func (f *fakeApplicationRepo) FindOpenBetween(youthID, elderlyID string) (*models.Application, error) {
	return f.findOpen(func(a *models.Application) bool {
		return a.YouthID == youthID && a.ElderlyID == elderlyID
	})
}

func (f *fakeApplicationRepo) ListByUser(userID string) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range f.apps {
		if app.IsParty(userID) {
			apps = append(apps, *app)
		}
	}
	return apps, nil
}

func (f *fakeApplicationRepo) ListByStatus(status models.ApplicationStatus, limit, offset int) ([]models.Application, int64, error) {
	var apps []models.Application
	for _, app := range f.apps {
		if app.Status == status {
			apps = append(apps, *app)
		}
	}
	return apps, int64(len(apps)), nil
}

func (f *fakeApplicationRepo) UpdateStatusCAS(id string, from, to models.ApplicationStatus, patch map[string]interface{}) (bool, error) {
	app, ok := f.apps[id]
	if !ok || app.Status != from {
		return false, nil
	}
	app.Status = to
	return true, nil
}

type fakeRelationshipRepo struct {
	rels        map[string]*models.Relationship
	withdrawals map[string]*models.Withdrawal // keyed by relationship ID

	// apps backs CreateFromApplication's status compare-and-set; fixtures
	// that promote applications must link it.
	apps *fakeApplicationRepo
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{
		rels:        make(map[string]*models.Relationship),
		withdrawals: make(map[string]*models.Withdrawal),
	}
}

func (f *fakeRelationshipRepo) addActive(youthID, elderlyID string) *models.Relationship {
	rel := &models.Relationship{
		YouthID:   youthID,
		ElderlyID: elderlyID,
		Stage:     models.StageActiveRelationship,
	}
	rel.ID = uuid.NewString()
	rel.ApplicationID = uuid.NewString()
	f.rels[rel.ID] = rel
	return rel
}

func (f *fakeRelationshipRepo) FindByID(id string) (*models.Relationship, error) {
	rel, ok := f.rels[id]
	if !ok {
		return nil, repositories.ErrRelationshipNotFound
	}
	copied := *rel
	copied.Withdrawal = f.withdrawals[rel.ID]
	return &copied, nil
}

func (f *fakeRelationshipRepo) FindActiveByUser(userID string) (*models.Relationship, error) {
	for _, rel := range f.rels {
		if rel.IsParty(userID) && rel.Stage == models.StageActiveRelationship {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, repositories.ErrRelationshipNotFound
}

func (f *fakeRelationshipRepo) ListByUser(userID string) ([]models.Relationship, error) {
	var rels []models.Relationship
	for _, rel := range f.rels {
		if rel.IsParty(userID) {
			copied := *rel
			copied.Withdrawal = f.withdrawals[rel.ID]
			rels = append(rels, copied)
		}
	}
	return rels, nil
}

func (f *fakeRelationshipRepo) FindLatestWithdrawalBetween(userA, userB string) (*models.Withdrawal, error) {
	var latest *models.Withdrawal
	for relID, withdrawal := range f.withdrawals {
		rel := f.rels[relID]
		if rel == nil {
			continue
		}
		samePair := (rel.YouthID == userA && rel.ElderlyID == userB) ||
			(rel.YouthID == userB && rel.ElderlyID == userA)
		if !samePair {
			continue
		}
		if latest == nil || withdrawal.WithdrawnAt.After(latest.WithdrawnAt) {
			latest = withdrawal
		}
	}
	if latest == nil {
		return nil, repositories.ErrWithdrawalNotFound
	}
	return latest, nil
}

func (f *fakeRelationshipRepo) CreateFromApplication(app *models.Application) (*models.Relationship, error) {
	// The compare-and-set runs against the stored record, not the caller's
	// snapshot, matching the transactional update in the gorm repository.
	stored := app
	if f.apps != nil {
		s, ok := f.apps.apps[app.ID]
		if !ok {
			return nil, repositories.ErrApplicationNotFound
		}
		stored = s
	}
	if stored.Status != models.ApplicationStatusApproved {
		return nil, repositories.ErrApplicationNotFound
	}
	stored.Status = models.ApplicationStatusAccepted

	rel := &models.Relationship{
		YouthID:       app.YouthID,
		ElderlyID:     app.ElderlyID,
		ApplicationID: app.ID,
		Stage:         models.StageActiveRelationship,
	}
	rel.ID = uuid.NewString()
	f.rels[rel.ID] = rel
	return rel, nil
}

func (f *fakeRelationshipRepo) WithdrawCAS(relationshipID string, withdrawal *models.Withdrawal) (bool, error) {
	rel, ok := f.rels[relationshipID]
	if !ok || rel.Stage != models.StageActiveRelationship {
		return false, nil
	}
	rel.Stage = models.StageWithdrawnCoolingOff
	if withdrawal.ID == "" {
		withdrawal.ID = uuid.NewString()
	}
	f.withdrawals[relationshipID] = withdrawal
	return true, nil
}

func (f *fakeRelationshipRepo) ListWithdrawalsToNotify(now time.Time) ([]models.Withdrawal, error) {
	var due []models.Withdrawal
	for _, withdrawal := range f.withdrawals {
		if !withdrawal.PartiesNotified && !withdrawal.CoolingOffUntil.After(now) {
			due = append(due, *withdrawal)
		}
	}
	return due, nil
}

func (f *fakeRelationshipRepo) MarkWithdrawalNotified(withdrawalID string) error {
	for _, withdrawal := range f.withdrawals {
		if withdrawal.ID == withdrawalID {
			withdrawal.PartiesNotified = true
			return nil
		}
	}
	return repositories.ErrWithdrawalNotFound
}

type fakeChatRepo struct {
	dialogs      map[string]*chat.Dialog
	participants map[string][]string
	messages     map[string][]chat.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		dialogs:      make(map[string]*chat.Dialog),
		participants: make(map[string][]string),
		messages:     make(map[string][]chat.Message),
	}
}

func (f *fakeChatRepo) CreateDialog(dialog *chat.Dialog, participantIDs []string) error {
	if dialog.ID == "" {
		dialog.ID = uuid.NewString()
	}
	f.dialogs[dialog.ID] = dialog
	f.participants[dialog.ID] = participantIDs
	return nil
}

func (f *fakeChatRepo) FindDialogByID(id string) (*chat.Dialog, error) {
	dialog, ok := f.dialogs[id]
	if !ok {
		return nil, repositories.ErrDialogNotFound
	}
	return dialog, nil
}

func (f *fakeChatRepo) FindDialogByApplication(applicationID string) (*chat.Dialog, error) {
	for _, dialog := range f.dialogs {
		if dialog.ApplicationID != nil && *dialog.ApplicationID == applicationID {
			return dialog, nil
		}
	}
	return nil, repositories.ErrDialogNotFound
}

func (f *fakeChatRepo) FindDialogByRelationship(relationshipID string) (*chat.Dialog, error) {
	for _, dialog := range f.dialogs {
		if dialog.RelationshipID != nil && *dialog.RelationshipID == relationshipID {
			return dialog, nil
		}
	}
	return nil, repositories.ErrDialogNotFound
}

func (f *fakeChatRepo) ListDialogsForUser(userID string, kind *chat.DialogKind) ([]chat.Dialog, error) {
	var dialogs []chat.Dialog
	for id, dialog := range f.dialogs {
		if kind != nil && dialog.Kind != *kind {
			continue
		}
		for _, participantID := range f.participants[id] {
			if participantID == userID {
				dialogs = append(dialogs, *dialog)
				break
			}
		}
	}
	return dialogs, nil
}

func (f *fakeChatRepo) IsParticipant(dialogID, userID string) (bool, error) {
	for _, participantID := range f.participants[dialogID] {
		if participantID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChatRepo) ListParticipantIDs(dialogID string) ([]string, error) {
	return f.participants[dialogID], nil
}

func (f *fakeChatRepo) CreateMessage(message *chat.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now()
	f.messages[message.DialogID] = append(f.messages[message.DialogID], *message)
	return nil
}

func (f *fakeChatRepo) ListMessages(dialogID string, limit, offset int) ([]chat.Message, error) {
	return f.messages[dialogID], nil
}

func (f *fakeChatRepo) MarkRead(dialogID, userID string) error { return nil }

// notificationRecorder captures Notify calls so tests can assert who was
// told what without touching persistence or email.
type notificationRecorder struct {
	sent []recordedNotification
}

type recordedNotification struct {
	UserID string
	Type   models.NotificationType
}

func (r *notificationRecorder) Notify(userID string, ntype models.NotificationType, title, body string, applicationID, relationshipID *string) {
	r.sent = append(r.sent, recordedNotification{UserID: userID, Type: ntype})
}

func (r *notificationRecorder) ListNotifications(userID string, limit, offset int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *notificationRecorder) MarkRead(userID, notificationID string) error { return nil }
func (r *notificationRecorder) MarkAllRead(userID string) error              { return nil }
func (r *notificationRecorder) CountUnread(userID string) (int64, error)     { return 0, nil }

func (r *notificationRecorder) sentTo(userID string, ntype models.NotificationType) bool {
	for _, n := range r.sent {
		if n.UserID == userID && n.Type == ntype {
			return true
		}
	}
	return false
}

// withFrozenClock pins the service clock for the duration of a test.
func withFrozenClock(t interface{ Cleanup(func()) }, at time.Time) {
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = time.Now })
}
