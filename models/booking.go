package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Trip type constants submitted by clients
const (
	TripTypeOneWay    = "one-way"
	TripTypeRoundTrip = "round-trip"
)

// Booking represents a confirmed transfer reservation. The submitted total is
// stored as-is after passing the price consistency check; it is not recomputed
// from the rate table.
// Table: bookings
type Booking struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_bookings_uuid" json:"uuid"`

	CustomerID uint      `gorm:"not null;index:idx_bookings_customer_id" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	ServiceTypeID uint         `gorm:"not null;index:idx_bookings_service_type_id" json:"service_type_id"`
	ServiceType   *ServiceType `gorm:"foreignKey:ServiceTypeID;references:ID" json:"service_type,omitempty"`
	VehicleTypeID uint         `gorm:"not null" json:"vehicle_type_id"`
	VehicleType   *VehicleType `gorm:"foreignKey:VehicleTypeID;references:ID" json:"vehicle_type,omitempty"`

	FromLocationID uint      `gorm:"not null" json:"from_location_id"`
	FromLocation   *Location `gorm:"foreignKey:FromLocationID;references:ID" json:"from_location,omitempty"`
	ToLocationID   uint      `gorm:"not null" json:"to_location_id"`
	ToLocation     *Location `gorm:"foreignKey:ToLocationID;references:ID" json:"to_location,omitempty"`

	TripType   string          `gorm:"size:50;not null" json:"trip_type"`
	Passengers int             `gorm:"not null" json:"passengers"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Currency   string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PickupDate time.Time       `gorm:"type:date;not null;index:idx_bookings_pickup_date" json:"pickup_date"`
	Status     string          `gorm:"size:50;not null;default:'pending';index:idx_bookings_status" json:"status"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_bookings_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// BookingFilter represents filter criteria for booking queries
type BookingFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CustomerID    *uint
	ServiceTypeID *uint
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
