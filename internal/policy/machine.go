package policy

import "vnc_manager/internal/domain" // Domain models

// CanViewMachine reports whether the identity may read the machine.
// Shared machines are visible to every authenticated identity; personal
// machines only to their owner. Admins get no extra read scope here: a
// personal machine of another user stays hidden even from admins on reads,
// matching the list visibility rule.
func CanViewMachine(userID uint, m *domain.Machine) bool {
	return m.IsShared() || m.OwnedBy(userID) // Shared or own
}

// CanMutateMachine reports whether the identity may update or delete the
// machine. Owners may mutate their own machines; admins may mutate anything,
// including shared machines (which have no owner).
func CanMutateMachine(userID uint, role string, m *domain.Machine) bool {
	return m.OwnedBy(userID) || role == domain.RoleAdmin // Owner or admin
}

// CheckCreateMachine validates the ownership of a new machine. Anyone may
// create a personal machine; creating a shared one is admin-only.
func CheckCreateMachine(role string, shared bool) error {
	if shared && role != domain.RoleAdmin {
		return ErrSharedAdmin // Only admins create shared machines
	}
	return nil
}
