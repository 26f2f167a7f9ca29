package create_hold

import "time"

// Request модель запроса на временную блокировку слота
type Request struct {
	BusinessID     int64     // ID бизнеса
	ServiceID      int64     // ID услуги
	ProfessionalID int64     // ID мастера
	StartAt        time.Time // Начало слота
}

// Response модель ответа с созданной блокировкой
type Response struct {
	HoldID    string    // UUID блокировки
	ExpiresAt time.Time // Момент истечения блокировки
}
