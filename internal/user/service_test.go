package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/auth"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) CreateInvited(ctx context.Context, name, email, passwordHash, role string, gymID int) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) ListByGym(ctx context.Context, gymID int) ([]User, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, userID int, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockUserRepo) CountOwners(ctx context.Context, gymID int) (int, error) {
	args := m.Called(ctx, gymID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepo) SetPassword(ctx context.Context, userID int, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *MockUserRepo) SetOnboarded(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepo) GymName(ctx context.Context, gymID int) (string, error) {
	args := m.Called(ctx, gymID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepo) CreateResetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}

func (m *MockUserRepo) ConsumeResetToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

type MockInviteSender struct{ mock.Mock }

func (m *MockInviteSender) SendInvitation(ctx context.Context, email, name, gymName, role, tempPassword string) error {
	return m.Called(ctx, email, name, gymName, role, tempPassword).Error(0)
}

func (m *MockInviteSender) SendPasswordSetup(ctx context.Context, email, name, setupLink string) error {
	return m.Called(ctx, email, name, setupLink).Error(0)
}

func newTestService(repo Repository, sender EmailSender) Service {
	return NewService(repo, sender, "test-secret", 0)
}

func intPtr(v int) *int { return &v }

func TestService_Register(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("EmailExists", mock.Anything, "new@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "New User", "new@example.com", mock.Anything, auth.RoleAthlete).Return(&User{
		ID: 1, Name: "New User", Email: "new@example.com", Role: auth.RoleAthlete,
	}, nil)

	user, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name: "New User", Email: "new@example.com", Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, auth.RoleAthlete, user.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "X", Email: "taken@example.com", Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create")
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	hash, _ := auth.HashPassword("correct-password")
	repo.On("FindByEmail", mock.Anything, "user@example.com").Return(&User{
		ID: 1, Email: "user@example.com", PasswordHash: hash, Role: auth.RoleAthlete,
	}, nil)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "user@example.com", Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("sql: no rows"))

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_InviteMembers_PartialFailure(t *testing.T) {
	repo := new(MockUserRepo)
	sender := new(MockInviteSender)
	svc := newTestService(repo, sender)

	repo.On("GymName", mock.Anything, 1).Return("Iron Temple", nil)

	// First invite succeeds.
	repo.On("EmailExists", mock.Anything, "ann@example.com").Return(false, nil)
	repo.On("CreateInvited", mock.Anything, "Ann", "ann@example.com", mock.Anything, auth.RoleAthlete, 1).
		Return(&User{ID: 2, Email: "ann@example.com"}, nil)
	sender.On("SendInvitation", mock.Anything, "ann@example.com", "Ann", "Iron Temple", auth.RoleAthlete, mock.Anything).
		Return(nil)

	// Second already exists.
	repo.On("EmailExists", mock.Anything, "bob@example.com").Return(true, nil)

	// Third is created but the email bounces.
	repo.On("EmailExists", mock.Anything, "cid@example.com").Return(false, nil)
	repo.On("CreateInvited", mock.Anything, "Cid", "cid@example.com", mock.Anything, auth.RoleCoach, 1).
		Return(&User{ID: 3, Email: "cid@example.com"}, nil)
	sender.On("SendInvitation", mock.Anything, "cid@example.com", "Cid", "Iron Temple", auth.RoleCoach, mock.Anything).
		Return(errors.New("mailbox full"))

	results, err := svc.InviteMembers(context.Background(), 1, []InviteRequest{
		{Name: "Ann", Email: "ann@example.com", Role: auth.RoleAthlete},
		{Name: "Bob", Email: "bob@example.com", Role: auth.RoleAthlete},
		{Name: "Cid", Email: "cid@example.com", Role: auth.RoleCoach},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.Equal(t, "ann@example.com", results[0].Target)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "already exists")
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "email failed")
}

func TestService_InviteMembers_InvalidItemSkipped(t *testing.T) {
	repo := new(MockUserRepo)
	sender := new(MockInviteSender)
	svc := newTestService(repo, sender)

	repo.On("GymName", mock.Anything, 1).Return("Iron Temple", nil)

	results, err := svc.InviteMembers(context.Background(), 1, []InviteRequest{
		{Name: "Ann", Email: "not-an-address", Role: auth.RoleAthlete},
		{Name: "Bob", Email: "bob@example.com", Role: "janitor"},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "valid email")
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "must be one of")

	// Invalid items never reach the database or the mailer.
	repo.AssertNotCalled(t, "EmailExists")
	repo.AssertNotCalled(t, "CreateInvited")
	sender.AssertNotCalled(t, "SendInvitation")
}

func TestService_ChangeRole_LastOwnerGuard(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("FindByID", mock.Anything, 5).Return(&User{
		ID: 5, Role: auth.RoleOwner, GymID: intPtr(1),
	}, nil)
	repo.On("CountOwners", mock.Anything, 1).Return(1, nil)

	_, err := svc.ChangeRole(context.Background(), 1, 5, auth.RoleCoach)

	assert.ErrorIs(t, err, ErrLastOwner)
	repo.AssertNotCalled(t, "UpdateRole")
}

func TestService_ChangeRole_DemoteWithSecondOwner(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("FindByID", mock.Anything, 5).Return(&User{
		ID: 5, Role: auth.RoleOwner, GymID: intPtr(1),
	}, nil)
	repo.On("CountOwners", mock.Anything, 1).Return(2, nil)
	repo.On("UpdateRole", mock.Anything, 5, auth.RoleCoach).Return(nil)

	updated, err := svc.ChangeRole(context.Background(), 1, 5, auth.RoleCoach)

	assert.NoError(t, err)
	assert.Equal(t, auth.RoleCoach, updated.Role)
}

func TestService_ChangeRole_TargetOutsideGym(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("FindByID", mock.Anything, 5).Return(&User{
		ID: 5, Role: auth.RoleAthlete, GymID: intPtr(2),
	}, nil)

	_, err := svc.ChangeRole(context.Background(), 1, 5, auth.RoleCoach)

	assert.ErrorIs(t, err, ErrNotInGym)
}

func TestService_ChangeRole_NoopSameRole(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("FindByID", mock.Anything, 5).Return(&User{
		ID: 5, Role: auth.RoleCoach, GymID: intPtr(1),
	}, nil)

	updated, err := svc.ChangeRole(context.Background(), 1, 5, auth.RoleCoach)

	assert.NoError(t, err)
	assert.Equal(t, auth.RoleCoach, updated.Role)
	repo.AssertNotCalled(t, "UpdateRole")
}

func TestService_RequestPasswordSetup_UnknownEmailSilent(t *testing.T) {
	repo := new(MockUserRepo)
	sender := new(MockInviteSender)
	svc := newTestService(repo, sender)

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("sql: no rows"))

	err := svc.RequestPasswordSetup(context.Background(), "ghost@example.com", "http://localhost:8080")

	assert.NoError(t, err)
	sender.AssertNotCalled(t, "SendPasswordSetup")
}

func TestService_CompletePasswordSetup(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("ConsumeResetToken", mock.Anything, "tok-123").Return(7, nil)
	repo.On("SetPassword", mock.Anything, 7, mock.Anything).Return(nil)
	repo.On("SetOnboarded", mock.Anything, 7).Return(nil)

	err := svc.CompletePasswordSetup(context.Background(), "tok-123", "new-password")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_CompletePasswordSetup_BadToken(t *testing.T) {
	repo := new(MockUserRepo)
	svc := newTestService(repo, new(MockInviteSender))

	repo.On("ConsumeResetToken", mock.Anything, "stale").Return(0, ErrResetTokenInvalid)

	err := svc.CompletePasswordSetup(context.Background(), "stale", "new-password")

	assert.ErrorIs(t, err, ErrResetTokenInvalid)
	repo.AssertNotCalled(t, "SetPassword")
}
