package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"poketeam/internal/config"
	"poketeam/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPublisher records published domain events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Port: ":0"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())},
		JWT:      config.JWTConfig{Secret: "test_jwt_secret", TTL: time.Hour},
		Cache:    config.CacheConfig{TTL: time.Minute},
	}
}

func newTestApp(t *testing.T, deps Deps) (*config.Config, Deps) {
	t.Helper()
	cfg := testConfig()
	db, err := repositories.Open(cfg.Database.Driver, cfg.Database.DSN, zap.NewNop().Sugar())
	require.NoError(t, err)
	deps.DB = db
	return cfg, deps
}

func TestNewAppRequiresDatabase(t *testing.T) {
	_, err := NewApp(testConfig(), zap.NewNop().Sugar(), Deps{})
	require.Error(t, err)
}

func TestConnectWithOptionalServicesDisabled(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	deps, cleanup, err := Connect(ctx, cfg, zap.NewNop().Sugar())
	t.Cleanup(cleanup)
	require.NoError(t, err)
	assert.NotNil(t, deps.DB)
	assert.Nil(t, deps.Cache)
	assert.Nil(t, deps.Events)
}

func TestHealthAndFallbackRoutes(t *testing.T) {
	cfg, deps := newTestApp(t, Deps{})
	app, err := NewApp(cfg, zap.NewNop().Sugar(), deps)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route does not exist", body["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegistrationPublishesEvent(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", "", "user.registered", mock.MatchedBy(func(body []byte) bool {
		var evt map[string]interface{}
		return json.Unmarshal(body, &evt) == nil && evt["event"] == "user.registered" && evt["userID"] != ""
	})).Return(nil).Once()

	cfg, deps := newTestApp(t, Deps{Events: pub})
	app, err := NewApp(cfg, zap.NewNop().Sugar(), deps)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(`{"username":"ash01","password":"pikachu123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	pub.AssertExpectations(t)
}
