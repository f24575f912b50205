package auth

// Permission represents a named capability in the system.
type Permission string

// Permission constants.
const (
	PermCatalogManage Permission = "catalog:manage"
	PermUserManage    Permission = "user:manage"
)

// rolePermissions maps each role to its granted permissions.
// This is the single source of truth for the authorisation model. Reading
// the catalog needs only a valid token, so the user role grants nothing.
var rolePermissions = map[Role][]Permission{
	RoleUser: {},
	RoleAdmin: {
		PermCatalogManage,
		PermUserManage,
	},
}

// HasPermission returns true if the given role has the specified permission.
// Unknown roles have no permissions.
func HasPermission(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}
