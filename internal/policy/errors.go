package policy

import "errors" // Sentinel errors

// Error kinds returned by policy checks. Handlers map these onto HTTP statuses
// (Forbidden -> 403, the self-protection guards -> 400).
var (
	ErrForbidden    = errors.New("access denied")          // Identity lacks rights over the record
	ErrSharedAdmin  = errors.New("admin required")         // Non-admin tried to create a shared machine
	ErrSelfDemotion = errors.New("cannot demote yourself") // Admin tried to drop their own role
	ErrSelfDelete   = errors.New("cannot delete yourself") // Admin tried to delete their own account
)
