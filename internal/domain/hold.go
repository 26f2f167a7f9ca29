package domain

import "time"

// SlotHold is a short-lived exclusive claim on a slot.
// It bridges the multi-step booking flow: the client reserves the slot,
// fills in contact details and then commits the appointment.
type SlotHold struct {
	ID             string // uuid
	BusinessID     int64
	ServiceID      int64
	ProfessionalID int64

	StartAt time.Time

	// Occupied interval with service buffers applied
	OccupiedFrom  time.Time
	OccupiedUntil time.Time

	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the hold no longer blocks the slot.
// An expired hold is equivalent to no hold at all.
func (h *SlotHold) IsExpired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// Matches returns true if the hold covers the given slot request
func (h *SlotHold) Matches(serviceID, professionalID int64, startAt time.Time) bool {
	return h.ServiceID == serviceID &&
		h.ProfessionalID == professionalID &&
		h.StartAt.Equal(startAt)
}
