package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo   UserRepository
	issuer *TokenIssuer
}

func NewService(repo UserRepository, issuer *TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// RegisterStudent creates a student account keyed by roll number and returns
// the user with a signed session token.
func (s *Service) RegisterStudent(ctx context.Context, rollNumber, password, name, email string) (*domain.User, string, error) {
	if _, err := s.repo.FindByRollNumber(ctx, rollNumber); err == nil {
		return nil, "", ErrDuplicateID
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           fmt.Sprintf("user_%s", uuid.New().String()[:12]),
		RollNumber:   rollNumber,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         domain.RoleStudent,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginStudent authenticates by roll number.
func (s *Service) LoginStudent(ctx context.Context, rollNumber, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByRollNumber(ctx, rollNumber)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	return s.finishLogin(user, password)
}

// LoginStaff authenticates crew or management by email.
func (s *Service) LoginStaff(ctx context.Context, email, password string, role domain.Role) (*domain.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email, role)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	return s.finishLogin(user, password)
}

func (s *Service) finishLogin(user *domain.User, password string) (*domain.User, string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
