package create_hold

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
	createHold "github.com/barberia/booking-service/internal/usecase/create_hold"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID int64  `json:"professionalId"`
	StartAt        string `json:"startAt"` // RFC 3339, например "2026-03-15T10:00:00+01:00"
}

// HoldResponse HTTP response model
type HoldResponse struct {
	HoldID    string `json:"holdId"`
	ExpiresAt string `json:"expiresAt"` // RFC 3339
}

// ConflictResponse тело ответа 409: слот занят
// Подсказка позволяет клиенту обновить доступность без лишних запросов
type ConflictResponse struct {
	Code             string           `json:"code"` // SLOT_UNAVAILABLE
	Message          string           `json:"message"`
	Action           string           `json:"action"` // REFRESH_AVAILABILITY
	AvailabilityHint AvailabilityHint `json:"availabilityHint"`
}

// AvailabilityHint параметры для повторного запроса доступности
type AvailabilityHint struct {
	Date           string `json:"date"` // "2026-03-15"
	ProfessionalID int64  `json:"professionalId"`
	ServiceID      int64  `json:"serviceId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest(businessID int64) (*createHold.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		BusinessID:     businessID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		StartAt:        startAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		HoldID:    resp.HoldID,
		ExpiresAt: resp.ExpiresAt.Format(time.RFC3339),
	}
}

// NewConflictResponse формирует тело ответа 409 с подсказкой доступности
func NewConflictResponse(message string, req *createHold.Request) *ConflictResponse {
	return &ConflictResponse{
		Code:    "SLOT_UNAVAILABLE",
		Message: message,
		Action:  "REFRESH_AVAILABILITY",
		AvailabilityHint: AvailabilityHint{
			Date:           req.StartAt.Format(domain.DateFormat),
			ProfessionalID: req.ProfessionalID,
			ServiceID:      req.ServiceID,
		},
	}
}
