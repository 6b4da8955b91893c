package domain

import (
	"time"
)

// EVOwner is the owner profile attached to a User. NIC is the national identity code.
type EVOwner struct {
	NIC       string    `json:"nic" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EVOwner) TableName() string { return "ev_owners" }

// EVOwnerPatch carries the optional profile fields of an update.
type EVOwnerPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}
