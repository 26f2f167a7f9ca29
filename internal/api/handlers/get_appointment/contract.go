package get_appointment

import (
	"context"

	"github.com/barberia/booking-service/internal/service/appointments/models"
)

// AppointmentService интерфейс сервиса записей
type AppointmentService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
