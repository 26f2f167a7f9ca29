package bookingconfig

import (
	"context"

	"github.com/barberia/booking-service/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	Create(ctx context.Context, config *domain.BookingConfig) (*domain.BookingConfig, error)
	GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingConfig, error)
	Update(ctx context.Context, id int64, config *domain.BookingConfig) (*domain.BookingConfig, error)
	Delete(ctx context.Context, id int64) error
}

// ScheduleRepository интерфейс хранилища расписаний
type ScheduleRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
