package user_test

import (
	"context"
	"testing"

	"foodify/domain"
	"foodify/entities"
	"foodify/pkg/user"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
	byID    map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*entities.User),
		byID:    make(map[string]*entities.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *entities.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID string) (*entities.User, error) {
	if u, ok := f.byID[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeJWT struct{}

func (fakeJWT) GenerateTokenUser(userId string, role string) string { return "token-" + role }
func (fakeJWT) ValidateTokenUser(_ string) (*jwtlib.Token, error)   { return nil, nil }
func (fakeJWT) GetUserIDByToken(_ string) (string, string, error)   { return "", "", nil }

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := user.NewUserService(repo, fakeJWT{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret-password",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, registered.Role)

	// Duplicate email is rejected.
	_, err = svc.Register(ctx, domain.RegisterRequest{
		Name:     "Asha Again",
		Email:    "asha@example.com",
		Password: "secret-password",
		Role:     domain.RoleCustomer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// Stored password is a hash, never the plaintext.
	assert.NotEqual(t, "secret-password", repo.byEmail["asha@example.com"].Password)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: "asha@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "token-customer", res.Token)
	assert.Equal(t, domain.RoleCustomer, res.Role)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestMe(t *testing.T) {
	repo := newFakeUserRepo()
	svc := user.NewUserService(repo, fakeJWT{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "secret-password",
		Role:     domain.RoleDeliveryAgent,
	})
	require.NoError(t, err)

	me, err := svc.Me(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", me.Email)

	_, err = svc.Me(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
