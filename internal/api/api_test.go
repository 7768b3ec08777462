package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"vnc_manager/internal/auth"
	"vnc_manager/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// testPassword is the plaintext behind every fixture account
const testPassword = "password123"

// setupTest builds a router over a fresh in-memory database. No Redis
// client is passed, which disables caching in the handlers.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Machine{}))
	return NewRouter(db, nil, testSecret), db
}

// createUser inserts a fixture account with the shared test password
func createUser(t *testing.T, db *gorm.DB, email, role string) domain.User {
	t.Helper()
	// MinCost keeps the fixtures fast; strength is irrelevant here
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// tokenFor issues a token for a fixture account
func tokenFor(t *testing.T, u domain.User) string {
	t.Helper()
	token, err := auth.GenerateJWT(u.ID, u.Role, testSecret)
	require.NoError(t, err)
	return token
}

// createMachine inserts a machine row directly, ownerID nil means shared
func createMachine(t *testing.T, db *gorm.DB, name, host string, port int, ownerID *uint) domain.Machine {
	t.Helper()
	m := domain.Machine{Name: name, Host: host, Port: port, OwnerID: ownerID}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// itoa renders a record ID for request paths
func itoa(id uint) string {
	return strconv.Itoa(int(id))
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doRaw performs a request with a raw JSON body, for payloads that need
// explicit null fields
func doRaw(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response into dest
func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// mustStatus asserts the response status, printing the body on mismatch
func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
