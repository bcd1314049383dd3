package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/metrics"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLastOwner          = errors.New("cannot demote the last owner of a gym")
	ErrNotInGym           = errors.New("user does not belong to this gym")
)

// EmailSender is the slice of the email service the user flows need.
type EmailSender interface {
	SendInvitation(ctx context.Context, email, name, gymName, role, tempPassword string) error
	SendPasswordSetup(ctx context.Context, email, name, setupLink string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	Roster(ctx context.Context, gymID int) ([]User, error)
	InviteMembers(ctx context.Context, gymID int, invites []InviteRequest) ([]api.BatchItemResult, error)
	ChangeRole(ctx context.Context, gymID, targetID int, newRole string) (*User, error)
	RequestPasswordSetup(ctx context.Context, email, baseURL string) error
	CompletePasswordSetup(ctx context.Context, token, newPassword string) error
}

type service struct {
	repo      Repository
	email     EmailSender
	jwtSecret string
	sendDelay time.Duration
}

func NewService(repo Repository, emailSender EmailSender, jwtSecret string, sendDelay time.Duration) Service {
	return &service{
		repo:      repo,
		email:     emailSender,
		jwtSecret: jwtSecret,
		sendDelay: sendDelay,
	}
}

func gymIDValue(u *User) int {
	if u.GymID == nil {
		return 0
	}
	return *u.GymID
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, auth.RoleAthlete)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		gymIDValue(user),
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		gymIDValue(user),
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, gymIDValue(user), s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) Roster(ctx context.Context, gymID int) ([]User, error) {
	return s.repo.ListByGym(ctx, gymID)
}

// InviteMembers creates invited users one by one and emails their temporary
// credentials. One bad invite never aborts the batch; sends are paced with a
// fixed delay to stay under the mail provider's rate limit.
func (s *service) InviteMembers(ctx context.Context, gymID int, invites []InviteRequest) ([]api.BatchItemResult, error) {
	gymName, err := s.repo.GymName(ctx, gymID)
	if err != nil {
		return nil, err
	}

	results := make([]api.BatchItemResult, 0, len(invites))
	for i, invite := range invites {
		if i > 0 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}

		result := api.BatchItemResult{Target: invite.Email}

		if fieldErrors := api.ValidateStruct(invite); len(fieldErrors) > 0 {
			result.Error = fieldErrors[0].Message
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "invalid")
			continue
		}

		exists, err := s.repo.EmailExists(ctx, invite.Email)
		if err != nil {
			result.Error = "database error"
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "failed")
			continue
		}
		if exists {
			result.Error = ErrEmailExists.Error()
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "duplicate")
			continue
		}

		tempPassword := uuid.NewString()[:12]
		passwordHash, err := auth.HashPassword(tempPassword)
		if err != nil {
			result.Error = "failed to generate credentials"
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "failed")
			continue
		}

		if _, err := s.repo.CreateInvited(ctx, invite.Name, invite.Email, passwordHash, invite.Role, gymID); err != nil {
			result.Error = "failed to create user"
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "failed")
			continue
		}

		if err := s.email.SendInvitation(ctx, invite.Email, invite.Name, gymName, invite.Role, tempPassword); err != nil {
			result.Error = fmt.Sprintf("user created but email failed: %v", err)
			results = append(results, result)
			metrics.RecordInvitation(invite.Role, "email_failed")
			continue
		}

		result.OK = true
		results = append(results, result)
		metrics.RecordInvitation(invite.Role, "sent")
	}

	return results, nil
}

func (s *service) ChangeRole(ctx context.Context, gymID, targetID int, newRole string) (*User, error) {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if target.GymID == nil || *target.GymID != gymID {
		return nil, ErrNotInGym
	}

	if target.Role == newRole {
		return target, nil
	}

	// A gym must always keep at least one owner.
	if target.Role == auth.RoleOwner {
		owners, err := s.repo.CountOwners(ctx, gymID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, ErrLastOwner
		}
	}

	if err := s.repo.UpdateRole(ctx, targetID, newRole); err != nil {
		return nil, err
	}

	target.Role = newRole
	return target, nil
}

func (s *service) RequestPasswordSetup(ctx context.Context, email, baseURL string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address exists.
		return nil
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(ctx, user.ID, token, time.Now().Add(24*time.Hour)); err != nil {
		return err
	}

	setupLink := fmt.Sprintf("%s/password-setup?token=%s", baseURL, token)
	return s.email.SendPasswordSetup(ctx, user.Email, user.Name, setupLink)
}

func (s *service) CompletePasswordSetup(ctx context.Context, token, newPassword string) error {
	userID, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.SetPassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	return s.repo.SetOnboarded(ctx, userID)
}
