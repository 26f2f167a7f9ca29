package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Appointment represents a committed booking for a professional
type Appointment struct {
	ID             int64
	BusinessID     int64
	ServiceID      int64
	ProfessionalID int64

	ClientName  string
	ClientPhone string
	ClientEmail *string

	StartAt time.Time
	EndAt   time.Time // StartAt + service duration

	// Occupied interval with service buffers applied.
	// Drives the per-professional no-overlap invariant.
	OccupiedFrom  time.Time
	OccupiedUntil time.Time

	Status AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed || a.Status == StatusInProgress
}

// IsFinished returns true for terminal non-slot-occupying states
func (a *Appointment) IsFinished() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow || a.Status == StatusCancelled
}

// AppointmentsFilter фильтр для выборки записей бизнеса
type AppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	ProfessionalID  *int64             // Фильтр по мастеру (опционально)
	Date            *time.Time         // Конкретная дата (опционально)
	From            *time.Time         // Начало периода (опционально)
	To              *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и no-show
}
