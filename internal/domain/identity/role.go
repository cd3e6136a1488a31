package identity

// Role is a user's permission level. Roles are a fixed set rather than a
// configurable RBAC table; the workflow rules only need to distinguish
// who can approve documents and who can administer the system.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// CanApprove returns true for roles allowed to approve, reject, and
// finalize workflow documents
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageUsers returns true for roles allowed to create and edit users
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// CanManageCatalog returns true for roles allowed to edit stock items,
// suppliers, sites, and bins
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleManager
}
