package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"poketeam/internal/models"
	"poketeam/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func nopLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil, nopLogger())

	mockRepo.On("GetByUsername", ctx, "ash01").Return(nil, models.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "ash01" &&
			u.PasswordHash != "pikachu123" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pikachu123")) == nil
	})).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, "  ash01 ", "pikachu123")
	require.NoError(t, err)
	assert.Equal(t, "ash01", user.Username)
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", ctx, "ash01").Return(&models.User{ID: "1", Username: "ash01"}, nil).Once()
	_, err = authService.RegisterUser(ctx, "ash01", "pikachu123")
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
	assert.ErrorIs(t, err, models.ErrDuplicateKey)
	mockRepo.AssertExpectations(t)

	// Lost the race to a concurrent registration
	mockRepo.On("GetByUsername", ctx, "misty").Return(nil, models.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(models.ErrDuplicateUsername).Once()
	_, err = authService.RegisterUser(ctx, "misty", "starmie")
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	// Store failure is passed through
	storeErr := errors.New("connection refused")
	mockRepo.On("GetByUsername", ctx, "brock").Return(nil, storeErr).Once()
	_, err = authService.RegisterUser(ctx, "brock", "onix")
	assert.ErrorIs(t, err, storeErr)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterPublishesEvent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	pub := new(MockPublisher)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, pub, nopLogger())

	mockRepo.On("GetByUsername", ctx, "ash01").Return(nil, models.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()
	pub.On("Publish", services.EventsExchange, "user.registered", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := authService.RegisterUser(ctx, "ash01", "pikachu123")
	assert.NoError(t, err, "publish failures must not fail registration")
	pub.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, nil, nopLogger())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("pikachu123"), bcrypt.MinCost)
	user := &models.User{
		ID:           "user-123",
		Username:     "ash01",
		PasswordHash: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	token, got, err := authService.LoginUser(ctx, "ash01", "pikachu123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown user fail identically
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	_, _, wrongErr := authService.LoginUser(ctx, "ash01", "wrongpassword")
	mockRepo.On("GetByUsername", ctx, "gary").Return(nil, models.ErrUserNotFound).Once()
	_, _, unknownErr := authService.LoginUser(ctx, "gary", "pikachu123")

	assert.Equal(t, models.ErrUnauthorized, wrongErr)
	assert.Equal(t, models.ErrUnauthorized, unknownErr)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour, nil, nopLogger())

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	// Valid token
	valid := sign(jwt.MapClaims{"user_id": "user-123", "username": "ash01", "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	cases := map[string]string{
		"garbage":      "invalid.token.string",
		"wrong secret": sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, "other"),
		"expired":      sign(jwt.MapClaims{"user_id": "user-123", "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret),
		"no subject":   sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := authService.ValidateToken(tok)
			assert.ErrorIs(t, err, models.ErrUnauthorized)
			assert.Contains(t, err.Error(), "invalid token")
		})
	}
}
