package models

import "time"

// VehicleType represents a vehicle class with capacity limits.
// MaxPax bounds the passengers a single unit carries; MaxUnits bounds how many
// units a single booking may request.
// Table: vehicle_types
type VehicleType struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null;uniqueIndex:uk_vehicle_types_name" json:"name"`
	MaxPax   int    `gorm:"not null" json:"max_pax"`
	MaxUnits int    `gorm:"not null;default:1" json:"max_units"`

	Features []*ServiceFeature `gorm:"many2many:vehicle_type_features;" json:"features,omitempty"`

	IsActive  *bool     `gorm:"default:true;index:idx_vehicle_types_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (VehicleType) TableName() string { return "vehicle_types" }

// CanCarry reports whether a single unit of this vehicle class fits the
// requested passenger count.
func (v *VehicleType) CanCarry(pax int) bool {
	return pax > 0 && v.MaxPax >= pax
}

// ServiceFeature represents an amenity attached to vehicle classes (many-to-many)
// Table: service_features
type ServiceFeature struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uk_service_features_name" json:"name"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ServiceFeature) TableName() string { return "service_features" }

// VehicleTypeFilter represents filter criteria for vehicle type queries
type VehicleTypeFilter struct {
	ID       *uint
	Name     *string
	IsActive *bool
}
