package models

import "time"

// Service type code constants
const (
	ServiceTypeOneWay       = "one-way"
	ServiceTypeRoundTrip    = "round-trip"
	ServiceTypeHotelToHotel = "hotel-to-hotel"
)

// ServiceType represents an enumerable transfer category with a stable code
// Table: service_types
// Unique by code
type ServiceType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:50;not null;uniqueIndex:uk_service_types_code" json:"code"`
	Name string `gorm:"size:255;not null" json:"name"`

	IsActive  *bool     `gorm:"default:true;index:idx_service_types_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ServiceType) TableName() string { return "service_types" }

// ServiceTypeFilter represents filter criteria for service type queries
type ServiceTypeFilter struct {
	ID       *uint
	Code     *string
	IsActive *bool
}
