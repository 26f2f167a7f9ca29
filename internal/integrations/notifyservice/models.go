package notifyservice

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// События уведомлений
const (
	eventAppointmentCreated   = "appointment.created"
	eventAppointmentCancelled = "appointment.cancelled"
)

// Notification модель исходящего уведомления
type Notification struct {
	Event          string    `json:"event"`
	AppointmentID  int64     `json:"appointment_id"`
	BusinessID     int64     `json:"business_id"`
	ProfessionalID int64     `json:"professional_id"`
	ClientName     string    `json:"client_name"`
	ClientPhone    string    `json:"client_phone"`
	ClientEmail    *string   `json:"client_email,omitempty"`
	ServiceName    string    `json:"service_name"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status"`
}

func newNotification(event string, a *domain.Appointment) *Notification {
	return &Notification{
		Event:          event,
		AppointmentID:  a.ID,
		BusinessID:     a.BusinessID,
		ProfessionalID: a.ProfessionalID,
		ClientName:     a.ClientName,
		ClientPhone:    a.ClientPhone,
		ClientEmail:    a.ClientEmail,
		ServiceName:    a.ServiceName,
		StartAt:        a.StartAt,
		EndAt:          a.EndAt,
		Status:         string(a.Status),
	}
}
