package get_availability

import (
	"context"
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// ScheduleRepository интерфейс хранилища расписаний
type ScheduleRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetProfessional(ctx context.Context, businessID, professionalID int64) (*domain.Professional, error)
	ListActiveProfessionals(ctx context.Context, businessID int64) ([]*domain.Professional, error)
	ListTimeBlocks(ctx context.Context, businessID int64, from, until time.Time) ([]*domain.TimeBlock, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetActiveForProfessionalInRange получает активные записи мастера,
	// пересекающие интервал [from, until)
	GetActiveForProfessionalInRange(ctx context.Context, professionalID int64, from, until time.Time) ([]*domain.Appointment, error)
}

// HoldRepository интерфейс репозитория временных блокировок слотов
type HoldRepository interface {
	// ListActiveForProfessional получает не истёкшие на момент now holds мастера
	ListActiveForProfessional(ctx context.Context, professionalID int64, from, until time.Time, now time.Time) ([]*domain.SlotHold, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	// GetWithHierarchy получает конфигурацию с учетом иерархии приоритетов
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
