package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shawedgym/internal/apperror"
	"shawedgym/internal/auth"
	"shawedgym/internal/gym"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) CreateStaff(ctx context.Context, gymID int, name, email, passwordHash string) (*User, error) {
	args := m.Called(ctx, gymID, name, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) AutoProvisionOnFirstAdminLogin(ctx context.Context, ownerID int) (*gym.Provisioned, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Provisioned), args.Error(1)
}

type MockScope struct {
	mock.Mock
}

func (m *MockScope) Resolve(ctx context.Context, p auth.Principal) ([]int, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

type fixture struct {
	repo   *MockRepository
	gyms   *MockProvisioner
	scope  *MockScope
	tokens *auth.Provider
	svc    Service
}

func newFixture(t *testing.T) fixture {
	tokens, err := auth.NewProvider("test-secret")
	require.NoError(t, err)
	f := fixture{
		repo:   new(MockRepository),
		gyms:   new(MockProvisioner),
		scope:  new(MockScope),
		tokens: tokens,
	}
	f.svc = NewService(f.repo, f.tokens, f.gyms, f.scope)
	return f
}

func storedUser(t *testing.T, id int, role, password string) *User {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &User{ID: id, Name: "Ada", Email: "ada@example.com", PasswordHash: hash, Role: role}
}

func TestService_Register(t *testing.T) {
	f := newFixture(t)
	f.repo.On("Create", mock.Anything, "Ada", "ada@example.com", mock.AnythingOfType("string"), auth.RoleAdmin).
		Return(&User{ID: 3, Name: "Ada", Email: "ada@example.com", Role: auth.RoleAdmin}, nil)

	resp, err := f.svc.Register(context.Background(), RegisterRequest{Name: " Ada ", Email: " Ada@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Nil(t, resp.Gym)

	p, err := f.tokens.VerifyAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 3, p.UserID)
	assert.True(t, p.IsOwner())
	f.gyms.AssertNotCalled(t, "AutoProvisionOnFirstAdminLogin", mock.Anything, mock.Anything)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.Conflict("user.create", "email already registered"))

	_, err := f.svc.Register(context.Background(), RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestService_Login_OwnerProvisionsGym(t *testing.T) {
	f := newFixture(t)
	f.repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(storedUser(t, 3, auth.RoleAdmin, "password123"), nil)
	f.gyms.On("AutoProvisionOnFirstAdminLogin", mock.Anything, 3).
		Return(&gym.Provisioned{Gym: gym.Gym{ID: 10, Name: "Ada's Gym"}, PlanName: "basic", MemberLimit: 50}, nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, resp.Gym)
	assert.Equal(t, 10, resp.Gym.Gym.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestService_Login_ProvisioningFailureFailsLogin(t *testing.T) {
	f := newFixture(t)
	f.repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(storedUser(t, 3, auth.RoleAdmin, "password123"), nil)
	f.gyms.On("AutoProvisionOnFirstAdminLogin", mock.Anything, 3).
		Return(nil, apperror.Unavailable("gym.provision", assert.AnError))

	resp, err := f.svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "password123"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestService_Login_StaffSkipsProvisioning(t *testing.T) {
	f := newFixture(t)
	f.repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(storedUser(t, 8, auth.RoleCashier, "password123"), nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Nil(t, resp.Gym)
	f.gyms.AssertNotCalled(t, "AutoProvisionOnFirstAdminLogin", mock.Anything, mock.Anything)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperror.NotFound("user.find", "record not found"))

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(storedUser(t, 3, auth.RoleAdmin, "password123"), nil)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		f.gyms.AssertNotCalled(t, "AutoProvisionOnFirstAdminLogin", mock.Anything, mock.Anything)
	})
}

func TestService_Refresh(t *testing.T) {
	f := newFixture(t)
	pair, err := f.tokens.IssueTokens(auth.Principal{UserID: 3, Email: "ada@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		f.repo.On("FindByID", mock.Anything, 3).Return(&User{ID: 3, Email: "ada@example.com", Role: auth.RoleAdmin}, nil).Once()

		resp, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token refused", func(t *testing.T) {
		_, err := f.svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deleted user", func(t *testing.T) {
		f.repo.On("FindByID", mock.Anything, 3).Return(nil, apperror.NotFound("user.find", "record not found")).Once()

		_, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_GetMe(t *testing.T) {
	f := newFixture(t)
	u := &User{ID: 3, Email: "ada@example.com", Role: auth.RoleAdmin}
	f.repo.On("FindByID", mock.Anything, 3).Return(u, nil)
	f.scope.On("Resolve", mock.Anything, u.Principal()).Return([]int{10, 11}, nil)

	me, err := f.svc.GetMe(context.Background(), auth.Principal{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, me.GymIDs)
}

func TestService_CreateStaff(t *testing.T) {
	f := newFixture(t)
	f.repo.On("CreateStaff", mock.Anything, 10, "Bob", "bob@example.com", mock.AnythingOfType("string")).
		Return(&User{ID: 8, Name: "Bob", Role: auth.RoleCashier}, nil)

	u, err := f.svc.CreateStaff(context.Background(), 10, StaffRequest{Name: "Bob", Email: "BOB@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCashier, u.Role)
}
