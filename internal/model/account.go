package model

// Role is the account variant. It selects the table an id belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is a known variant.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// Principal is the authenticated caller, passed explicitly into every workflow.
type Principal struct {
	UserID      int64
	Role        Role
	IsAdmin     bool
	DisplayName string
}

// IsStudent reports whether the caller is a student.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

// IsFaculty reports whether the caller is a faculty member.
func (p Principal) IsFaculty() bool { return p.Role == RoleFaculty }

// Account is implemented by *Student and *Faculty.
type Account interface {
	AccountID() int64
	AccountRole() Role
	DisplayName() string
	ContactEmail() string
	CredentialHash() string
	Admin() bool
}

// PrincipalOf builds the session principal for an account.
func PrincipalOf(a Account) Principal {
	return Principal{
		UserID:      a.AccountID(),
		Role:        a.AccountRole(),
		IsAdmin:     a.Admin(),
		DisplayName: a.DisplayName(),
	}
}
