package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *viper.Viper {
	v := newConfig()
	v.Set("STORE_BACKEND", "memory")
	v.Set("DATABASE_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", "file::memory:?cache=shared")
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("RABBITMQ_URL", "")
	v.Set("ADMIN_EMAIL", "ops@example.com")
	v.Set("ADMIN_PASSWORD", "password123")
	return v
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestConfigDefaults(t *testing.T) {
	v := newConfig()
	assert.Equal(t, ":8080", v.GetString("APP_PORT"))
	assert.Equal(t, "fanout", v.GetString("ORDERS_STRATEGY"))
	assert.False(t, v.GetBool("CATALOG_CASCADE_DELETE"))
}

func TestNewAppHealth(t *testing.T) {
	app, authService, err := NewApp(testConfig())
	require.NoError(t, err)
	require.NotNil(t, authService)
	defer app.Shutdown()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"])
	assert.Equal(t, "fanout", body["orders"])
	assert.Equal(t, false, body["rabbitmq"])
}

func TestNewAppSeedsAdmin(t *testing.T) {
	app, _, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.Shutdown()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ops@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewAppRejectsUnknownBackends(t *testing.T) {
	v := testConfig()
	v.Set("STORE_BACKEND", "cassandra")
	_, _, err := NewApp(v)
	assert.ErrorContains(t, err, "STORE_BACKEND")

	v = testConfig()
	v.Set("DATABASE_DRIVER", "oracle")
	_, _, err = NewApp(v)
	assert.ErrorContains(t, err, "DATABASE_DRIVER")

	v = testConfig()
	v.Set("STORE_BACKEND", "firestore")
	v.Set("FIRESTORE_PROJECT_ID", "")
	_, _, err = NewApp(v)
	assert.ErrorContains(t, err, "FIRESTORE_PROJECT_ID")
}
