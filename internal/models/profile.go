package models

import "time"

// OwnerProfile holds business details for a food truck owner. At most one
// exists per user; it is not created at registration time but lazily on the
// owner's first profile edit.
type OwnerProfile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName    string    `gorm:"not null" json:"business_name"`
	BusinessLicense string    `json:"business_license,omitempty"`
	CuisineType     string    `json:"cuisine_type,omitempty"`
	OperatingHours  string    `json:"operating_hours,omitempty"`
	IsVerified      bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConsumerProfile holds browsing preferences for a website user.
type ConsumerProfile struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DietaryPreferences string    `json:"dietary_preferences,omitempty"`
	FavoriteCuisines   string    `json:"favorite_cuisines,omitempty"`
	NotifyNewTrucks    bool      `gorm:"not null;default:true" json:"notify_new_trucks"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
