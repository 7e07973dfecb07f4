package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. Password holds a bcrypt hash and is never serialized.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:150;not null" json:"username"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;default:user" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
