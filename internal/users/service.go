package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"resume-tracker/internal/shared/auth"
)

type Service struct {
	Repo   Repo
	Tokens *auth.Tokens

	// bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewService(repo Repo, tokens *auth.Tokens) *Service {
	return &Service{Repo: repo, Tokens: tokens}
}

var errNotConfigured = errors.New("users service not configured")

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return User{}, err
	}
	return s.Repo.Create(ctx, User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
	})
}

// IssueToken checks the credentials and returns a signed bearer token.
func (s *Service) IssueToken(ctx context.Context, in TokenInput) (string, auth.Claims, error) {
	if s == nil || s.Repo == nil || s.Tokens == nil {
		return "", auth.Claims{}, errNotConfigured
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", auth.Claims{}, ErrInvalidCredentials
		}
		return "", auth.Claims{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", auth.Claims{}, ErrInvalidCredentials
	}
	return s.Tokens.Issue(user.ID, user.Email)
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if userID <= 0 {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
