package domain

import "time"

// IntervalsOverlap reports whether two half-open intervals [aFrom, aUntil)
// and [bFrom, bUntil) actually overlap.
//
// Строгие неравенства: граничащие интервалы не считаются пересекающимися.
// Примеры:
// - [11:30, 12:00) и [11:20, 11:40) → ЕСТЬ пересечение (11:30-11:40)
// - [11:30, 12:00) и [11:00, 11:30) → НЕТ пересечения (граничат)
// - [11:30, 12:00) и [12:00, 12:30) → НЕТ пересечения (граничат)
func IntervalsOverlap(aFrom, aUntil, bFrom, bUntil time.Time) bool {
	return aFrom.Before(bUntil) && bFrom.Before(aUntil)
}
