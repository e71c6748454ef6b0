package models

import "time"

// Zone represents a named geographic grouping of locations within a city.
// Zones are the primary pricing granularity: every rate carries a zone pair.
// Table: zones
type Zone struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	CityID uint   `gorm:"not null;index:idx_zones_city_id" json:"city_id"`
	City   *City  `gorm:"foreignKey:CityID;references:ID" json:"city,omitempty"`
	Name   string `gorm:"size:255;not null;index:idx_zones_name" json:"name"`

	IsActive  *bool     `gorm:"default:true;index:idx_zones_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_zones_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Zone) TableName() string { return "zones" }

// ZoneFilter represents filter criteria for zone queries
type ZoneFilter struct {
	ID       *uint
	CityID   *uint
	Name     *string
	IsActive *bool
}
