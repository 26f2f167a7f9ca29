package get_availability

import (
	"sort"
	"time"

	"github.com/barberia/booking-service/internal/domain"
	"github.com/barberia/booking-service/pkg/types"
)

// busyInterval занятый интервал времени мастера [From, Until)
type busyInterval struct {
	From  time.Time
	Until time.Time
}

// collectBusyIntervals собирает все занятые интервалы мастера на день:
// активные записи, не истёкшие holds и блокировки времени
func collectBusyIntervals(
	professionalID int64,
	appointments []*domain.Appointment,
	holds []*domain.SlotHold,
	blocks []*domain.TimeBlock,
) []busyInterval {
	busy := make([]busyInterval, 0, len(appointments)+len(holds)+len(blocks))

	for _, appointment := range appointments {
		if !appointment.IsActive() {
			continue
		}
		busy = append(busy, busyInterval{From: appointment.OccupiedFrom, Until: appointment.OccupiedUntil})
	}

	for _, h := range holds {
		busy = append(busy, busyInterval{From: h.OccupiedFrom, Until: h.OccupiedUntil})
	}

	for _, block := range blocks {
		if !block.AppliesTo(professionalID) {
			continue
		}
		busy = append(busy, busyInterval{From: block.StartAt, Until: block.EndAt})
	}

	return busy
}

// generateSlotsForProfessional генерирует доступные слоты мастера на день
// Кандидаты идут от начала рабочего окна с шагом granularityMinutes.
// Кандидат t отбрасывается, если:
//   - занимаемый интервал [t - bufferBefore, t + duration + bufferAfter)
//     выходит за пределы рабочего окна
//   - t не строго позже now или раньше минимального времени предупреждения
//   - занимаемый интервал пересекается с занятым интервалом
//
// Пересечение проверяется строгими неравенствами: интервалы, граничащие
// друг с другом (конец одного равен началу другого), НЕ пересекаются
func generateSlotsForProfessional(
	professional *domain.Professional,
	service *domain.Service,
	granularityMinutes int,
	date time.Time,
	loc *time.Location,
	now time.Time,
	minBookingNoticeMinutes int,
	busy []busyInterval,
) ([]types.TimeString, error) {
	day := professional.Schedule.ForWeekday(dateInLocation(date, loc).Weekday())
	if !day.IsWorking || day.StartTime.IsZero() || day.EndTime.IsZero() {
		return []types.TimeString{}, nil
	}

	windowStart, err := day.StartTime.At(date, loc)
	if err != nil {
		return nil, err
	}
	windowEnd, err := day.EndTime.At(date, loc)
	if err != nil {
		return nil, err
	}

	earliestStart := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	step := time.Duration(granularityMinutes) * time.Minute

	slots := make([]types.TimeString, 0)

	for t := windowStart; t.Before(windowEnd); t = t.Add(step) {
		occupiedFrom, occupiedUntil := service.OccupiedInterval(t)

		// Слоты дальше по сетке заканчиваются только позже
		if occupiedUntil.After(windowEnd) {
			break
		}
		if occupiedFrom.Before(windowStart) {
			continue
		}

		if !t.After(now) || t.Before(earliestStart) {
			continue
		}

		if overlapsAny(occupiedFrom, occupiedUntil, busy) {
			continue
		}

		slots = append(slots, types.NewTimeString(t.In(loc)))
	}

	return slots, nil
}

// overlapsAny проверяет пересечение интервала [from, until) хотя бы с одним занятым
func overlapsAny(from, until time.Time, busy []busyInterval) bool {
	for _, b := range busy {
		if domain.IntervalsOverlap(from, until, b.From, b.Until) {
			return true
		}
	}
	return false
}

// mergeSlots объединяет слоты нескольких мастеров: дедупликация + сортировка
func mergeSlots(perProfessional [][]types.TimeString) []types.TimeString {
	seen := make(map[types.TimeString]struct{})
	merged := make([]types.TimeString, 0)

	for _, slots := range perProfessional {
		for _, slot := range slots {
			if _, ok := seen[slot]; ok {
				continue
			}
			seen[slot] = struct{}{}
			merged = append(merged, slot)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].IsBefore(merged[j])
	})

	return merged
}

// dateInLocation возвращает начало запрошенного дня во временной зоне бизнеса
func dateInLocation(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// dayRange возвращает границы дня [start, start+24h) во временной зоне бизнеса
func dayRange(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := dateInLocation(date, loc)
	return start, start.AddDate(0, 0, 1)
}
