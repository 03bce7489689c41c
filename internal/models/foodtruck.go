package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field length limits for truck listings, enforced by the validation layer
// before any insert so SQLite test databases behave like production Postgres.
const (
	MaxTruckNameLen    = 100
	MaxTruckCityLen    = 50
	MaxTruckCuisineLen = 50
)

// SocialLinks is an arbitrary string-keyed link map (e.g. "instagram" ->
// URL) stored as a single JSON column.
type SocialLinks map[string]string

// Value implements driver.Valuer. An empty (non-nil) map is stored as "{}".
func (s SocialLinks) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SocialLinks) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for SocialLinks", value)
	}
	return json.Unmarshal(data, s)
}

// FoodTruck is a business listing owned by a food_truck_owner account.
type FoodTruck struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	City        string         `gorm:"size:50" json:"city"`
	Cuisine     string         `gorm:"size:50" json:"cuisine"`
	Description string         `json:"description,omitempty"`
	Website     string         `json:"website,omitempty"`
	SocialLinks SocialLinks    `gorm:"type:json" json:"social_links,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
