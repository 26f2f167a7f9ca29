package get_booking_config

import (
	"context"

	"github.com/barberia/booking-service/internal/service/bookingconfig/models"
)

// ConfigService интерфейс сервиса конфигурации бронирования
type ConfigService interface {
	GetWithHierarchy(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
