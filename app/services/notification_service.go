package services

import (
	"context"
	"log"

	"github.com/caribetransfers/backend/models"
)

// NotificationService delivers booking lifecycle notifications to customers.
// Delivery is best-effort: a failed notification never rolls back the booking.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, booking *models.Booking, customer *models.Customer) error
}

// LogNotificationService writes notifications to the application log. Used in
// development and as the default until a mail provider is configured.
type LogNotificationService struct{}

func NewLogNotificationService() *LogNotificationService {
	return &LogNotificationService{}
}

func (s *LogNotificationService) SendBookingConfirmation(ctx context.Context, booking *models.Booking, customer *models.Customer) error {
	log.Printf("Booking confirmation for %s: booking %s on %s, total %s %s",
		customer.Email, booking.UUID, booking.PickupDate.Format("2006-01-02"),
		booking.TotalPrice.StringFixed(2), booking.Currency)
	return nil
}

// MockNotificationService records sent notifications for test assertions
type MockNotificationService struct {
	SentBookings []string
	FailWith     error
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (s *MockNotificationService) SendBookingConfirmation(ctx context.Context, booking *models.Booking, customer *models.Customer) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.SentBookings = append(s.SentBookings, booking.UUID.String())
	return nil
}
