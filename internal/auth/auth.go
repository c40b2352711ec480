// Package auth holds the authorization rules of the system: pure predicates
// with no side effects and no I/O. Callers translate a false result into an
// access-denied outcome and are responsible for auditing the denial.
package auth

// Identity is the resolved requester of an authenticated request. IsAdmin is
// always present; there is no optional or probed admin attribute.
type Identity struct {
	ID       string
	Username string
	IsAdmin  bool
}

// Owns reports whether the requester owns the resource. Ownership is the only
// authorization relation for documents and shares: a requester may read,
// delete, or share a resource iff they own it.
func Owns(resourceOwnerID, requesterID string) bool {
	return resourceOwnerID != "" && resourceOwnerID == requesterID
}

// CanViewAllAuditLogs reports whether the requester may list audit entries of
// other users. The administrator capability applies to audit-log listing
// only; it grants nothing else.
func CanViewAllAuditLogs(requester Identity) bool {
	return requester.IsAdmin
}
