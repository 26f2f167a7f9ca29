package update_booking_config

import (
	"github.com/barberia/booking-service/internal/service/bookingconfig/models"
)

// UpsertConfigRequest HTTP request model
// Не переданные параметры сохраняют текущие значения (или дефолты при создании)
type UpsertConfigRequest struct {
	ServiceID               *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг бизнеса
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
	HoldTTLSeconds          *int   `json:"holdTtlSeconds,omitempty"`
	AutoConfirm             *bool  `json:"autoConfirm,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertConfigRequest) ToServiceRequest(businessID int64, userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		BusinessID:              businessID,
		ServiceID:               r.ServiceID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		HoldTTLSeconds:          r.HoldTTLSeconds,
		AutoConfirm:             r.AutoConfirm,
	}
}
