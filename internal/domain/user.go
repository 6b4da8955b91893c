package domain

import (
	"time"
)

// User is a login account. EV owners additionally have an EVOwner record keyed by UserID.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"` // Hashed password
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal projects the account onto the identity used by authorization.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: ParseRole(u.Role)}
}
