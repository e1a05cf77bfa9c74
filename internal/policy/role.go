package policy

// Role is the authorization level stored on a user record.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles lists every assignable role.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Actor is the identity issuing a request. The zero value is anonymous.
type Actor struct {
	UserID      uint
	Username    string
	Role        Role
	IsSuperuser bool
}

// Anonymous returns an actor with no identity.
func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// IsAdmin is true for the admin role and for superusers regardless of role.
func (a Actor) IsAdmin() bool {
	return a.Authenticated() && (a.Role == RoleAdmin || a.IsSuperuser)
}

func (a Actor) IsModerator() bool {
	return a.Authenticated() && a.Role == RoleModerator
}

// Owns reports whether the actor authored a resource owned by ownerID.
func (a Actor) Owns(ownerID uint) bool {
	return a.Authenticated() && ownerID != 0 && a.UserID == ownerID
}
