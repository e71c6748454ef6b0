package models

import "time"

// Customer represents the person a booking is made for. Created together with
// its booking inside a single transaction.
// Table: customers
type Customer struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	FirstName string  `gorm:"size:255;not null" json:"first_name"`
	LastName  string  `gorm:"size:255;not null" json:"last_name"`
	Email     string  `gorm:"size:255;not null;index:idx_customers_email" json:"email"`
	Phone     *string `gorm:"size:50" json:"phone,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID    *uint
	Email *string
	Phone *string
}
