package models

import "time"

// Role decides which operations an account may perform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// BootstrapAdminID identifies the account that always exists and cannot be deleted.
const BootstrapAdminID = "admin001"

// User represents an account that can log in to the terminal.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Name      string    `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Role      Role      `json:"role" gorm:"type:varchar(16)" validate:"required,oneof=admin cashier"`
	CreatedAt time.Time `json:"created_at"`
}

// Sanitized returns a copy safe to hand to the presentation layer.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Cashier returns the session view of the account.
func (u User) Cashier() Cashier {
	return Cashier{Username: u.Username, Name: u.Name, Role: u.Role}
}

// Cashier is the authenticated identity bound to the active session.
type Cashier struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id,omitempty"`
}

// IsAdmin reports whether the session may run administrator operations.
func (c Cashier) IsAdmin() bool {
	return c.Role == RoleAdmin
}
