package domain

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a person known to the system. It doubles as the credential record:
// PasswordHash is never serialized.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	Fullname     *string `json:"fullname"`
	Email        *string `json:"email"`
	Department   *string `json:"department"`
	PasswordHash string  `json:"-"`
	IsActive     bool    `json:"is_active"`
	Role         Role    `json:"role"`
}

// Actor is the authenticated identity behind a single request.
type Actor struct {
	ID       int64
	Username string
	Role     Role
	IsActive bool
}

// ActorFromUser builds the request identity from a stored user.
func ActorFromUser(u *User) *Actor {
	return &Actor{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// NewUser carries the fields needed to create a user. Password is plaintext
// and only lives for the duration of the create call.
type NewUser struct {
	Username   string
	Password   string
	Fullname   *string
	Email      *string
	Department *string
	IsActive   bool
	Role       Role
}

// UserPatch is a partial update. Absent fields are left unchanged.
type UserPatch struct {
	Username   Optional[string]
	Fullname   Optional[string]
	Email      Optional[string]
	Department Optional[string]
	IsActive   Optional[bool]
	Role       Optional[Role]
	Password   Optional[string]
}

// ChangesRole reports whether the patch assigns a role. A null role assigns
// nothing.
func (p UserPatch) ChangesRole() bool {
	return p.Role.Set && p.Role.Valid
}

// UserChanges is what reaches the store: Password has been replaced by its hash.
type UserChanges struct {
	Username     Optional[string]
	Fullname     Optional[string]
	Email        Optional[string]
	Department   Optional[string]
	IsActive     Optional[bool]
	Role         Optional[Role]
	PasswordHash Optional[string]
}
