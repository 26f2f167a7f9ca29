package create_appointment

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
	createAppointment "github.com/barberia/booking-service/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID      int64         `json:"serviceId"`
	ProfessionalID int64         `json:"professionalId"`
	StartAt        string        `json:"startAt"` // RFC 3339
	Client         ClientPayload `json:"client"`
	HoldID         *string       `json:"holdId,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
}

// ClientPayload контактные данные клиента
type ClientPayload struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	AppointmentID  int64   `json:"appointmentId"`
	BusinessID     int64   `json:"businessId"`
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID int64   `json:"professionalId"`
	Status         string  `json:"status"`
	StartAt        string  `json:"startAt"` // RFC 3339
	EndAt          string  `json:"endAt"`   // RFC 3339
	ServiceName    string  `json:"serviceName"`
	ServicePrice   float64 `json:"servicePrice"`
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
func (r *CreateAppointmentRequest) ToUseCaseRequest(businessID int64) (*createAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		BusinessID:     businessID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		StartAt:        startAt,
		ClientName:     r.Client.Name,
		ClientPhone:    r.Client.Phone,
		ClientEmail:    r.Client.Email,
		HoldID:         r.HoldID,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentID:  resp.AppointmentID,
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		Status:         string(resp.Status),
		StartAt:        resp.StartAt.Format(time.RFC3339),
		EndAt:          resp.EndAt.Format(time.RFC3339),
		ServiceName:    resp.ServiceName,
		ServicePrice:   resp.ServicePrice,
	}
}

// NewConflictResponse формирует тело ответа 409 с подсказкой доступности
func NewConflictResponse(message string, req *createAppointment.Request) *ConflictResponse {
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
