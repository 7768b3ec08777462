package policy

import (
	"testing"

	"vnc_manager/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCheckRoleChange(t *testing.T) {
	// Self-demotion is forbidden regardless of anything else
	assert.ErrorIs(t, CheckRoleChange(1, 1, domain.RoleUser), ErrSelfDemotion)
	// Re-asserting your own admin role is allowed
	assert.NoError(t, CheckRoleChange(1, 1, domain.RoleAdmin))
	// Changing someone else's role either way is allowed
	assert.NoError(t, CheckRoleChange(1, 2, domain.RoleUser))
	assert.NoError(t, CheckRoleChange(1, 2, domain.RoleAdmin))
}

func TestCheckUserDelete(t *testing.T) {
	// Self-deletion is forbidden
	assert.ErrorIs(t, CheckUserDelete(1, 1), ErrSelfDelete)
	// Deleting another user is allowed
	assert.NoError(t, CheckUserDelete(1, 2))
}
