package domain

// Policy is a protection level evaluated against a Principal before a
// guarded operation runs.
type Policy struct {
	adminOnly bool
	ownerID   string
}

// AdminOnly requires the ADMIN role.
func AdminOnly() Policy {
	return Policy{adminOnly: true}
}

// SelfOrAdmin requires the caller to be ownerID or to hold the ADMIN role.
func SelfOrAdmin(ownerID string) Policy {
	return Policy{ownerID: ownerID}
}

// Allows reports whether p satisfies the policy.
func (pol Policy) Allows(p *Principal) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	if pol.adminOnly {
		return false
	}
	return pol.ownerID != "" && pol.ownerID == p.UserID
}
