package create_appointment

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// validateSlotWithinWindow проверяет, что занимаемый интервал записи
// не выходит за рабочее окно мастера в день начала
func validateSlotWithinWindow(
	professional *domain.Professional,
	service *domain.Service,
	startAt time.Time,
	loc *time.Location,
) error {
	localStart := startAt.In(loc)

	day := professional.Schedule.ForWeekday(localStart.Weekday())
	if !day.IsWorking || day.StartTime.IsZero() || day.EndTime.IsZero() {
		return ErrSlotUnavailable
	}

	windowStart, err := day.StartTime.At(localStart, loc)
	if err != nil {
		return ErrSlotUnavailable
	}
	windowEnd, err := day.EndTime.At(localStart, loc)
	if err != nil {
		return ErrSlotUnavailable
	}

	occupiedFrom, occupiedUntil := service.OccupiedInterval(startAt)
	if occupiedFrom.Before(windowStart) || occupiedUntil.After(windowEnd) {
		return ErrSlotUnavailable
	}

	return nil
}

// findConflict проверяет пересечение занимаемого интервала с записями,
// чужими holds и блокировками времени мастера
// Hold вызывающего (ownHoldID) не считается конфликтом
func findConflict(
	professionalID int64,
	occupiedFrom, occupiedUntil time.Time,
	ownHoldID string,
	appointments []*domain.Appointment,
	holds []*domain.SlotHold,
	blocks []*domain.TimeBlock,
) bool {
	for _, appointment := range appointments {
		if !appointment.IsActive() {
			continue
		}
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, appointment.OccupiedFrom, appointment.OccupiedUntil) {
			return true
		}
	}

	for _, h := range holds {
		if h.ID == ownHoldID {
			continue
		}
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, h.OccupiedFrom, h.OccupiedUntil) {
			return true
		}
	}

	for _, block := range blocks {
		if !block.AppliesTo(professionalID) {
			continue
		}
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, block.StartAt, block.EndAt) {
			return true
		}
	}

	return false
}
