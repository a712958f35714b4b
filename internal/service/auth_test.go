package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "ana@example.com").Return(nil, ErrNotFound)
		store.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
			assert.NotEmpty(t, u.ID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
			assert.True(t, testNow.Equal(u.CreatedAt))
			return nil
		})

		user, err := svc.Register(ctx, RegisterInput{Username: " ana ", Email: " Ana@Example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "ana", user.Username)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "ana@example.com").Return(&models.User{ID: "u1"}, nil)

		_, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("store failure on lookup", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "ana@example.com").Return(nil, errors.New("db down"))

		_, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret123"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConflict)
	})

	invalidInputs := []struct {
		name string
		in   RegisterInput
	}{
		{"no username", RegisterInput{Email: "a@example.com", Password: "secret123"}},
		{"bad email", RegisterInput{Username: "a", Email: "not-an-email", Password: "secret123"}},
		{"short password", RegisterInput{Username: "a", Email: "a@example.com", Password: "123"}},
	}
	for _, tt := range invalidInputs {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: "u1", Email: "ana@example.com", PasswordHash: string(hash)}

	t.Run("issues a token for the user id", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "ana@example.com").Return(stored, nil)

		token, err := svc.Login(ctx, "ana@example.com", "secret123")
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		}, jwt.WithoutClaimsValidation())
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.True(t, testNow.Add(tokenTTL).Equal(claims.ExpiresAt.Time))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "ana@example.com").Return(stored, nil)

		_, err := svc.Login(ctx, "ana@example.com", "nope")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		store.EXPECT().FindUserByEmail(ctx, "x@example.com").Return(nil, ErrNotFound)

		_, err := svc.Login(ctx, "x@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
