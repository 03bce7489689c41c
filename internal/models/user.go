// Package models contains the GORM data model and error types for the
// food truck directory.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account types in the directory.
type Role string

const (
	RoleWebsiteUser    Role = "website_user"
	RoleFoodTruckOwner Role = "food_truck_owner"
	RoleAdmin          Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWebsiteUser, RoleFoodTruckOwner, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the directory. Owners and website users share the
// same record and differ only in Role and which profile extension applies.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"not null;default:'website_user'" json:"role"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Address   string         `json:"address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Trucks          []FoodTruck      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"trucks,omitempty"`
	OwnerProfile    *OwnerProfile    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"owner_profile,omitempty"`
	ConsumerProfile *ConsumerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"consumer_profile,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSubmitTrucks reports whether the user may create truck listings.
func (u *User) CanSubmitTrucks() bool {
	return u.Role == RoleFoodTruckOwner || u.Role == RoleAdmin
}
