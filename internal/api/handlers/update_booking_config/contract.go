package update_booking_config

import (
	"context"

	"github.com/barberia/booking-service/internal/service/bookingconfig/models"
)

// ConfigService интерфейс сервиса конфигурации бронирования
type ConfigService interface {
	Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
