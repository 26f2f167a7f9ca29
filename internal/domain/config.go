package domain

import "time"

// BookingConfig represents booking parameters for a business
// Supports two-level hierarchy:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
type BookingConfig struct {
	ID                      int64
	BusinessID              int64
	ServiceID               *int64 // NULL = config for all services
	SlotGranularityMinutes  int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	HoldTTLSeconds          int
	AutoConfirm             bool // true: new appointments start confirmed, false: pending
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsBusinessWide returns true if this config applies to all services
func (c *BookingConfig) IsBusinessWide() bool {
	return c.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *BookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// HoldTTL возвращает время жизни hold'а как time.Duration
func (c *BookingConfig) HoldTTL() time.Duration {
	return time.Duration(c.HoldTTLSeconds) * time.Second
}

// InitialStatus returns the status a freshly committed appointment gets
func (c *BookingConfig) InitialStatus() AppointmentStatus {
	if c.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// DefaultBookingConfig возвращает конфигурацию с дефолтными значениями
// Используется, когда для бизнеса не создано ни одной конфигурации
func DefaultBookingConfig(businessID int64) *BookingConfig {
	return &BookingConfig{
		BusinessID:              businessID,
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		HoldTTLSeconds:          DefaultHoldTTLSeconds,
		AutoConfirm:             DefaultAutoConfirm,
	}
}
