package api

import (
	"net/http"
	"testing"

	"vnc_manager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTest(t)

	// Registration returns a token and the new account
	w := doJSON(r, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "new@example.com",
		"password": "password123",
	})
	mustStatus(t, w, http.StatusCreated)
	var reg AuthResponse
	decode(t, w, &reg)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "new@example.com", reg.User.Email)
	assert.Equal(t, domain.RoleUser, reg.User.Role)

	// Duplicate registration is rejected
	w = doJSON(r, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "new@example.com",
		"password": "password123",
	})
	mustStatus(t, w, http.StatusBadRequest)

	// Login with the right password works
	w = doJSON(r, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "new@example.com",
		"password": "password123",
	})
	mustStatus(t, w, http.StatusOK)
	var login AuthResponse
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)

	// Wrong password and unknown account both yield 401
	w = doJSON(r, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "new@example.com",
		"password": "wrongpassword",
	})
	mustStatus(t, w, http.StatusUnauthorized)
	w = doJSON(r, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	mustStatus(t, w, http.StatusUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupTest(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{"email": "not-an-email", "password": "password123"}},
		{"short password", map[string]any{"email": "a@example.com", "password": "short"}},
		{"missing fields", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/auth/register", "", tt.body)
			mustStatus(t, w, http.StatusBadRequest)
			assert.Contains(t, w.Body.String(), "details")
		})
	}
}

func TestMe(t *testing.T) {
	r, db := setupTest(t)
	bob := createUser(t, db, "bob@example.com", domain.RoleUser)

	// A valid token returns the account behind it
	w := doJSON(r, http.MethodGet, "/auth/me", tokenFor(t, bob), nil)
	mustStatus(t, w, http.StatusOK)
	var me UserResponse
	decode(t, w, &me)
	assert.Equal(t, bob.ID, me.ID)
	assert.Equal(t, "bob@example.com", me.Email)
	assert.NotContains(t, w.Body.String(), "password")

	// No token is 401
	w = doJSON(r, http.MethodGet, "/auth/me", "", nil)
	mustStatus(t, w, http.StatusUnauthorized)

	// A token for a deleted account is 401
	token := tokenFor(t, bob)
	require.NoError(t, db.Delete(&bob).Error)
	w = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	mustStatus(t, w, http.StatusUnauthorized)
}
