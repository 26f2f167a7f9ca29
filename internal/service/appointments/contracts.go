package appointments

import (
	"context"

	"github.com/barberia/booking-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string, cancelledBy *int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// ScheduleRepository интерфейс хранилища расписаний
type ScheduleRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetProfessional(ctx context.Context, businessID, professionalID int64) (*domain.Professional, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	// NotifyAppointmentCancelled отправляет уведомление об отмене записи
	// Ошибка доставки не влияет на результат отмены
	NotifyAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
