package service

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/auth"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func register(t *testing.T, f *fixture, email, role string) (*domain.User, string) {
	t.Helper()
	sub := f.bus.Subscribe()
	defer f.bus.Unsubscribe(sub)

	user, err := f.userService.Register(context.Background(), domain.RegisterRequest{
		Name:     "Jane",
		Email:    email,
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)

	ev, ok := (<-sub).(events.UserRegistered)
	require.True(t, ok)
	return user, ev.Token
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token := register(t, f, "Jane@Example.com", "")
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.Enabled)
	assert.NotEqual(t, "secret1", user.Password)

	_, err := f.userService.Login(ctx, domain.LoginRequest{Email: "jane@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Account not verified. Please check your email for verification link.", err.Error())

	msg, err := f.userService.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Email successfully verified. You can now login.", msg)

	// the token is consumed by the first verification
	_, err = f.userService.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	resp, err := f.userService.Login(ctx, domain.LoginRequest{Email: "JANE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.RoleUser, resp.Role)
	assert.True(t, resp.ExpirationTime.After(time.Now()))
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token := register(t, f, "bob@example.com", "")
	_, err := f.userService.VerifyEmail(ctx, token)
	require.NoError(t, err)

	_, err = f.userService.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Email not found", err.Error())

	_, err = f.userService.Login(ctx, domain.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Password does not match", err.Error())
}

func TestRegister_DuplicateEmailAndAdminRole(t *testing.T) {
	f := newFixture(t)

	user, _ := register(t, f, "boss@example.com", "Admin")
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err := f.userService.Register(context.Background(), domain.RegisterRequest{
		Name: "Again", Email: "BOSS@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	user, _ = register(t, f, "other@example.com", "superuser")
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestVerifyEmail_ExpiredAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, token := register(t, f, "late@example.com", "")

	f.userService.now = func() time.Time { return time.Now().Add(f.userService.verificationTTL + time.Minute) }
	_, err := f.userService.VerifyEmail(ctx, token)
	require.Error(t, err)
	assert.Equal(t, "Verification link has expired", err.Error())

	_, err = f.userService.VerifyEmail(ctx, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, "Invalid verification token", err.Error())

	_, err = f.userService.VerifyEmail(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCurrentUserAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	me, err := f.userService.CurrentUser(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, customer.Email, me.Email)

	_, err = f.userService.ListUsers(ctx, customer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.userService.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveAddress_ReplacesExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAddressService(repository.NewAddressRepository(f.db), hclog.NewNullLogger())

	first, err := svc.SaveAddress(ctx, customer, domain.AddressRequest{Street: "1 Main St", City: "Izmir", Country: "TR"})
	require.NoError(t, err)

	second, err := svc.SaveAddress(ctx, customer, domain.AddressRequest{Street: "2 Side St", City: "Ankara", Country: "TR"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	me, err := f.userService.CurrentUser(ctx, customer)
	require.NoError(t, err)
	require.NotNil(t, me.Address)
	assert.Equal(t, "Ankara", me.Address.City)
}

func TestUserService_SeparateTokenAndVerificationLifetimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewUserService(
		f.users,
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewJWTManager(auth.JWTConfig{SecretKey: "test", TokenDuration: 24 * time.Hour, Issuer: "test"}),
		24*time.Hour,
		time.Hour,
		f.bus,
		hclog.NewNullLogger(),
	).(*userService)
	svc.now = func() time.Time { return now }

	sub := f.bus.Subscribe()
	defer f.bus.Unsubscribe(sub)

	_, err := svc.Register(ctx, domain.RegisterRequest{Name: "Tim", Email: "tim@example.com", Password: "secret1"})
	require.NoError(t, err)
	ev := (<-sub).(events.UserRegistered)

	stored, err := f.users.GetByEmail(ctx, "tim@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationTokenExpiry)
	assert.True(t, now.Add(time.Hour).Equal(*stored.VerificationTokenExpiry))

	// the verification window is one hour, not the 24h token lifetime
	svc.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	_, err = svc.VerifyEmail(ctx, ev.Token)
	require.Error(t, err)
	assert.Equal(t, "Verification link has expired", err.Error())

	svc.now = func() time.Time { return now.Add(59 * time.Minute) }
	_, err = svc.VerifyEmail(ctx, ev.Token)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "tim@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), resp.ExpirationTime)
}
