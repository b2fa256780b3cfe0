package models

const (
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	// Password is only present on records written before hashing was
	// introduced; it is replaced by PasswordHash on the next login.
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// Public strips every credential field.
func (user User) Public() User {
	user.PasswordHash = ""
	user.Password = ""
	return user
}

func IsKnownRole(role string) bool {
	return role == RoleLandlord || role == RoleAdmin
}
