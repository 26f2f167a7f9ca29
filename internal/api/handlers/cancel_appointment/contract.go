package cancel_appointment

import (
	"context"

	"github.com/barberia/booking-service/internal/service/appointments/models"
)

// AppointmentService интерфейс сервиса записей
type AppointmentService interface {
	Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
