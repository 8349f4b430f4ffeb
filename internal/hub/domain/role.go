package domain

// Role is the single role carried by every authenticated identity.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleBrandManager Role = "brand_manager"
	RoleInfluencer   Role = "influencer"
	RoleUser         Role = "user"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleBrandManager, RoleInfluencer, RoleUser}

func (r Role) String() string { return string(r) }

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// SelfAssignable reports whether a user may pick r at registration.
func (r Role) SelfAssignable() bool {
	return r == RoleUser || r == RoleInfluencer
}

// Names converts roles to strings for route allow-lists.
func Names(roles ...Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
