package models

import "time"

// Location type constants
const (
	LocationTypeHotel   = "hotel"
	LocationTypeAirport = "airport"
	LocationTypeDock    = "dock"
	LocationTypeOther   = "other"
)

// Location represents a concrete pickup/dropoff point (hotel, airport, dock)
// belonging to exactly one zone. A location pair on a rate row marks the row
// as a location-specific override of the zone-level default.
// Table: locations
type Location struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	ZoneID uint   `gorm:"not null;index:idx_locations_zone_id" json:"zone_id"`
	Zone   *Zone  `gorm:"foreignKey:ZoneID;references:ID" json:"zone,omitempty"`
	Name   string `gorm:"size:255;not null;index:idx_locations_name" json:"name"`
	Type   string `gorm:"size:50;not null;default:'hotel';index:idx_locations_type" json:"type"`

	IsActive  *bool     `gorm:"default:true;index:idx_locations_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_locations_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Location) TableName() string { return "locations" }

// LocationFilter represents filter criteria for location queries
type LocationFilter struct {
	ID       *uint
	ZoneID   *uint
	Name     *string
	Type     *string
	IsActive *bool
}
