package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/access"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

const minPasswordLen = 8

// AuthService implements registration, login and operator provisioning.
// Self-service registration always yields a reporter account.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: utcNow}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.newUser(in, domain.RoleReporter)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.User, bool, error) {
	if !in.Role.Valid() {
		return nil, false, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}

	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	if existing == nil {
		user, err := s.newUser(in.RegisterInput, in.Role)
		if err != nil {
			return nil, false, err
		}
		created, err := s.repo.Create(ctx, user)
		return created, err == nil, err
	}

	if len(in.Password) < minPasswordLen {
		return nil, false, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	existing.PasswordHash = string(hash)
	existing.Role = in.Role
	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Phone != "" {
		existing.Phone = in.Phone
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Profile returns the actor's own account.
func (s *AuthService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := access.Authorize(actor, access.ManageProfile, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, actor.UserID)
}

// UpdateProfile changes the actor's name and phone. Role, email and password
// are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, actor domain.Actor, in ports.ProfileInput) (*domain.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" && phone == "" {
		return user, nil
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) newUser(in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &domain.User{
		ID:           newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
