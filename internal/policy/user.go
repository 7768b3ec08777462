package policy

import "vnc_manager/internal/domain" // Domain models

// CheckRoleChange validates an admin changing targetID's role to newRole.
// An admin may never demote themselves to USER, so at least one admin keeps
// access after every role change.
func CheckRoleChange(callerID, targetID uint, newRole string) error {
	if callerID == targetID && newRole == domain.RoleUser {
		return ErrSelfDemotion // Self-demotion is forbidden even for admins
	}
	return nil
}

// CheckUserDelete validates an admin deleting targetID. Deleting your own
// account is forbidden for the same reason self-demotion is.
func CheckUserDelete(callerID, targetID uint) error {
	if callerID == targetID {
		return ErrSelfDelete // Self-deletion is forbidden
	}
	return nil
}
