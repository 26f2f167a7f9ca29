package create_appointment

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
	ListTimeBlocks(ctx context.Context, businessID int64, from, until time.Time) ([]*domain.TimeBlock, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	// GetActiveForProfessionalInRange получает активные записи мастера,
	// пересекающие интервал [from, until); внутри транзакции с блокировкой FOR UPDATE
	GetActiveForProfessionalInRange(ctx context.Context, professionalID int64, from, until time.Time) ([]*domain.Appointment, error)
}

// HoldRepository интерфейс репозитория временных блокировок слотов
type HoldRepository interface {
	GetByID(ctx context.Context, id string, now time.Time) (*domain.SlotHold, error)
	ListActiveForProfessional(ctx context.Context, professionalID int64, from, until time.Time, now time.Time) ([]*domain.SlotHold, error)
	// Delete удаляет использованный hold в той же транзакции, что и вставка записи
	Delete(ctx context.Context, id string) error
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	// NotifyAppointmentCreated отправляет уведомление о создании записи
	// Ошибка доставки не влияет на результат бронирования
	NotifyAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
