package get_availability

import (
	"time"

	"github.com/barberia/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID     int64     // ID бизнеса
	ServiceID      int64     // ID услуги
	ProfessionalID *int64    // ID мастера (nil = все активные мастера)
	Date           time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date           time.Time          // Дата, на которую запрашивались слоты
	BusinessID     int64              // ID бизнеса
	ServiceID      int64              // ID услуги
	ProfessionalID *int64             // ID мастера из запроса
	Timezone       string             // Временная зона бизнеса (IANA)
	Slots          []types.TimeString // Отсортированный список доступных слотов
}
