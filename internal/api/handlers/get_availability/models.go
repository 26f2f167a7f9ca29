package get_availability

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
	getAvailability "github.com/barberia/booking-service/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date           string   `json:"date"`     // "2026-03-15"
	Timezone       string   `json:"timezone"` // IANA, например "Europe/Madrid"
	BusinessID     int64    `json:"businessId"`
	ServiceID      int64    `json:"serviceId"`
	ProfessionalID *int64   `json:"professionalId,omitempty"`
	Slots          []string `json:"slots"` // ["10:00", "10:30", ...]
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(businessID, serviceID int64, professionalID *int64, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		BusinessID:     businessID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Date:           date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailabilityResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		Timezone:       resp.Timezone,
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		Slots:          slots,
	}
}
