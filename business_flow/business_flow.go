// Package businessflow contains the business logic for the application.
package businessflow

import (
	"encoding/json"
	"time"

	"github.com/caribetransfers/backend/app/dto"
	"github.com/caribetransfers/backend/models"
	"github.com/caribetransfers/backend/utils"
	"github.com/shopspring/decimal"
)

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// newAuditLog builds an audit row carrying the client metadata. Metadata may
// be nil for internally-triggered actions.
func newAuditLog(action string, description string, success bool, metadata *ClientMetadata, payload any) *models.AuditLog {
	row := &models.AuditLog{
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
		CreatedAt:   utils.UTCNow(),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			row.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			row.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if metadata.RequestID != "" {
			row.RequestID = utils.ToPtr(metadata.RequestID)
		}
	}
	if payload != nil {
		if bs, err := json.Marshal(payload); err == nil {
			row.Metadata = bs
		}
	}
	return row
}

// ToRateDTO maps a rate row into its public shape, projecting amounts into the
// display currency with the given conversion factor. factor 1 leaves stored
// base-currency amounts untouched.
func ToRateDTO(rate *models.Rate, currency string, factor decimal.Decimal) dto.RateDTO {
	d := dto.RateDTO{
		ID:                   rate.ID,
		ServiceTypeID:        rate.ServiceTypeID,
		VehicleTypeID:        rate.VehicleTypeID,
		FromZoneID:           rate.FromZoneID,
		ToZoneID:             rate.ToZoneID,
		FromLocationID:       rate.FromLocationID,
		ToLocationID:         rate.ToLocationID,
		CostVehicleOneWay:    convertAmount(rate.CostVehicleOneWay, factor),
		TotalOneWay:          convertAmount(rate.TotalOneWay, factor),
		CostVehicleRoundTrip: convertAmount(rate.CostVehicleRoundTrip, factor),
		TotalRoundTrip:       convertAmount(rate.TotalRoundTrip, factor),
		NumVehicles:          rate.NumVehicles,
		Currency:             currency,
	}
	if rate.ServiceType != nil {
		d.ServiceTypeCode = rate.ServiceType.Code
	}
	if rate.VehicleType != nil {
		d.VehicleTypeName = rate.VehicleType.Name
		d.MaxPax = rate.VehicleType.MaxPax
	}
	if rate.ValidFrom != nil {
		d.ValidFrom = utils.ToPtr(utils.FormatDate(*rate.ValidFrom))
	}
	if rate.ValidTo != nil {
		d.ValidTo = utils.ToPtr(utils.FormatDate(*rate.ValidTo))
	}
	return d
}

// convertAmount projects a base-currency amount into a display currency,
// rounded half-up to cents.
func convertAmount(amount decimal.Decimal, factor decimal.Decimal) decimal.Decimal {
	if factor.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Mul(factor).Round(2)
}

// resolveTravelDate parses an optional ISO date, defaulting to today (UTC)
func resolveTravelDate(s string) (time.Time, error) {
	if s == "" {
		return utils.UTCToday(), nil
	}
	return utils.ParseDate(s)
}

// filterValidOn keeps rows whose validity window covers the date and that are
// flagged available. This is the only place the predicate is applied.
func filterValidOn(rates []*models.Rate, date time.Time) []*models.Rate {
	out := make([]*models.Rate, 0, len(rates))
	for _, r := range rates {
		if r.IsValidOn(date) {
			out = append(out, r)
		}
	}
	return out
}

// filterByCapacity keeps rows whose vehicle class fits the passenger count.
// pax 0 means no capacity filter was requested.
func filterByCapacity(rates []*models.Rate, pax int) []*models.Rate {
	if pax <= 0 {
		return rates
	}
	out := make([]*models.Rate, 0, len(rates))
	for _, r := range rates {
		if r.VehicleType != nil && r.VehicleType.CanCarry(pax) {
			out = append(out, r)
		}
	}
	return out
}
