package domain

// Role is a closed set; the free-form role strings of the wire layer are
// parsed at the boundary and never travel further in.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOwner, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
