package create_appointment

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID     int64     // ID бизнеса
	ServiceID      int64     // ID услуги
	ProfessionalID int64     // ID мастера
	StartAt        time.Time // Начало слота

	ClientName  string  // Имя клиента
	ClientPhone string  // Телефон клиента
	ClientEmail *string // Email клиента (опционально)

	HoldID *string // UUID ранее созданного hold (опционально)
	Notes  *string // Заметки клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID  int64                    // ID созданной записи
	BusinessID     int64                    // ID бизнеса
	ServiceID      int64                    // ID услуги
	ProfessionalID int64                    // ID мастера
	Status         domain.AppointmentStatus // Статус новой записи
	StartAt        time.Time                // Начало записи
	EndAt          time.Time                // Конец записи (без буферов)
	ServiceName    string                   // Название услуги на момент записи
	ServicePrice   float64                  // Цена услуги на момент записи
}
