// Package models contains domain entities and business models for the transfer-booking system
package models

import "time"

// City represents a served destination city grouping one or more pricing zones
// Table: cities
// Unique by name
// Timestamps default to UTC at DB level
type City struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uk_cities_name" json:"name"`
	IsActive  *bool     `gorm:"default:true;index:idx_cities_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_cities_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (City) TableName() string { return "cities" }

// CityFilter represents filter criteria for city queries
type CityFilter struct {
	ID       *uint
	Name     *string
	IsActive *bool
}
