package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/auth"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
)

// DefaultVerificationTTL is how long an email verification link stays valid
// unless configured otherwise
const DefaultVerificationTTL = 24 * time.Hour

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	// VerifyEmail enables the account owning token and returns a status message
	VerifyEmail(ctx context.Context, token string) (string, error)
	CurrentUser(ctx context.Context, actor domain.Principal) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Principal) ([]domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.JWTManager
	tokenTTL time.Duration
	// lifetime of email verification links
	verificationTTL time.Duration
	eventBus        *events.EventBus[any]
	logger          hclog.Logger
	now             func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.JWTManager,
	tokenTTL time.Duration,
	verificationTTL time.Duration,
	eventBus *events.EventBus[any],
	logger hclog.Logger,
) UserService {
	return &userService{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		tokenTTL:        tokenTTL,
		verificationTTL: verificationTTL,
		eventBus:        eventBus,
		logger:          logger,
		now:             time.Now,
	}
}

// Register creates a disabled account and triggers the verification email.
// Only an explicit "admin" role request yields an administrator.
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("", "Email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Unable to hash password", "error", err)
		return nil, err
	}

	role := domain.RoleUser
	if strings.EqualFold(req.Role, "admin") {
		role = domain.RoleAdmin
	}

	token := uuid.NewString()
	expiry := s.now().Add(s.verificationTTL)
	user := &domain.User{
		Name:                    req.Name,
		Email:                   email,
		Password:                hash,
		PhoneNumber:             req.PhoneNumber,
		Role:                    role,
		Enabled:                 false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Unable to register user", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("User registered", "id", user.ID, "role", user.Role)
	s.eventBus.Publish(events.UserRegistered{UserID: user.ID, Email: user.Email, Name: user.Name, Token: token})
	return user, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Email not found")
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, domain.Unauthorized("Password does not match")
	}
	if !user.Enabled {
		return nil, domain.Unauthorized("Account not verified. Please check your email for verification link.")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("Unable to sign token", "id", user.ID, "error", err)
		return nil, err
	}

	return &domain.LoginResponse{
		Token:          token,
		Role:           user.Role,
		ExpirationTime: s.now().Add(s.tokenTTL),
	}, nil
}

func (s *userService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.InvalidArgument("Invalid verification token")
	}

	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.InvalidArgument("Invalid verification token")
		}
		return "", err
	}

	if user.Enabled {
		return "Account already verified", nil
	}
	if user.VerificationTokenExpiry == nil || s.now().After(*user.VerificationTokenExpiry) {
		return "", domain.InvalidArgument("Verification link has expired")
	}

	user.Enabled = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("Email verified", "id", user.ID)
	return "Email successfully verified. You can now login.", nil
}

func (s *userService) CurrentUser(ctx context.Context, actor domain.Principal) (*domain.User, error) {
	return s.users.GetProfile(ctx, actor.UserID)
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Principal) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can list users")
	}
	return s.users.GetAll(ctx)
}
