package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-pulse/internal/config"
	"github.com/jonathan/hr-pulse/internal/db"
	"github.com/jonathan/hr-pulse/internal/types"
)

type fakeUserStore struct {
	users []*db.User
	err   error
}

func (f *fakeUserStore) CreateUser(_ context.Context, email, username, passwordHash string) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &db.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserStore) find(match func(*db.User) bool) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	return f.find(func(u *db.User) bool { return u.ID == id })
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return f.find(func(u *db.User) bool { return u.Email == email })
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*db.User, error) {
	return f.find(func(u *db.User) bool { return u.Username == username })
}

func newTestUserService() (*UserService, *fakeUserStore) {
	store := &fakeUserStore{}
	return NewUserService(store, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}), store
}

func TestConvertDBUserToTypesUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Email:        "john@example.com",
			Username:     "john",
			PasswordHash: "hashed-password",
			IsActive:     true,
			CreatedAt:    now,
		}

		typesUser := convertDBUserToTypesUser(dbUser)
		require.NotNil(t, typesUser)
		assert.Equal(t, dbUser.ID, typesUser.ID)
		assert.Equal(t, dbUser.Email, typesUser.Email)
		assert.Equal(t, dbUser.Username, typesUser.Username)
		assert.True(t, typesUser.IsActive)
		assert.Equal(t, dbUser.CreatedAt, typesUser.CreatedAt)
	})

	t.Run("nil user", func(t *testing.T) {
		assert.Nil(t, convertDBUserToTypesUser(nil))
	})
}

func TestUserService_Register(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{Email: " Alice@Example.com ", Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.Len(t, store.users, 1)
	assert.NotEqual(t, "password123", store.users[0].PasswordHash)

	_, err = svc.Register(ctx, &types.RegisterRequest{Email: "alice@example.com", Username: "other", Password: "password123"})
	var emailErr *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &emailErr)

	_, err = svc.Register(ctx, &types.RegisterRequest{Email: "bob@example.com", Username: "alice", Password: "password123"})
	var usernameErr *ErrUsernameAlreadyExists
	assert.ErrorAs(t, err, &usernameErr)
	assert.Len(t, store.users, 1)
}

func TestUserService_Register_StoreFailure(t *testing.T) {
	svc, store := newTestUserService()
	store.err = errors.New("connection refused")

	_, err := svc.Register(context.Background(), &types.RegisterRequest{Email: "a@example.com", Username: "abc", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, 500, HTTPStatus(err))
}

func TestUserService_Login(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, &types.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{Email: "ALICE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	var credErr *ErrInvalidCredentials
	assert.ErrorAs(t, err, &credErr)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorAs(t, err, &credErr)

	store.users[0].IsActive = false
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "alice@example.com", Password: "password123"})
	var inactiveErr *ErrInactiveUser
	assert.ErrorAs(t, err, &inactiveErr)
}

func TestUserService_GetUser(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	created, err := svc.Register(ctx, &types.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetUser(ctx, uuid.New())
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)

	store.users[0].IsActive = false
	_, err = svc.GetUser(ctx, created.ID)
	assert.ErrorAs(t, err, &notFound)
}
