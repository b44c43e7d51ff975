package services

import (
	"context"
	"fmt"
	"time"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type identityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
}

func NewIdentityService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenProvider) ports.IdentityService {
	return &identityService{repo: repo, hasher: hasher, tokenProvider: tokens}
}

func (s *identityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// Soft uniqueness check; the DB constraint is the real guard against the
	// race between two concurrent registrations.
	if existing, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Email, cmd.Username, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		// User exists now; the client can retry via login.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    15 * time.Minute,
	}, nil
}

func (s *identityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// Never reveal whether the email or the password was wrong.
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    15 * time.Minute,
	}, nil
}

func (s *identityService) ValidateToken(_ context.Context, token string) (string, error) {
	return s.tokenProvider.Validate(token)
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *identityService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Bio == nil && cmd.AvatarURL == nil {
		return user, nil
	}

	user.UpdateProfile(cmd.Bio, cmd.AvatarURL)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return user, nil
}

func (s *identityService) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	return s.repo.Search(ctx, query)
}
