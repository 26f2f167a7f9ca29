package models

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// Request модели

// GetConfigRequest запрос на получение конфигурации (иерархический поиск)
type GetConfigRequest struct {
	BusinessID int64  `json:"businessId"`
	ServiceID  *int64 `json:"serviceId,omitempty"` // nil = конфигурация уровня бизнеса
}

// UpsertConfigRequest запрос на создание или обновление конфигурации
// Все параметры опциональны - не переданные берутся из дефолтов
type UpsertConfigRequest struct {
	UserID                  int64  `json:"userId"`
	BusinessID              int64  `json:"businessId"`
	ServiceID               *int64 `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
	HoldTTLSeconds          *int   `json:"holdTtlSeconds,omitempty"`
	AutoConfirm             *bool  `json:"autoConfirm,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации бронирования
type ConfigResponse struct {
	ID                      int64     `json:"id,omitempty"`
	BusinessID              int64     `json:"businessId"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	SlotGranularityMinutes  int       `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	HoldTTLSeconds          int       `json:"holdTtlSeconds"`
	AutoConfirm             bool      `json:"autoConfirm"`
	CreatedAt               time.Time `json:"createdAt,omitempty"`
	UpdatedAt               time.Time `json:"updatedAt,omitempty"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      c.ID,
		BusinessID:              c.BusinessID,
		ServiceID:               c.ServiceID,
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		HoldTTLSeconds:          c.HoldTTLSeconds,
		AutoConfirm:             c.AutoConfirm,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BookingConfig) *ConfigListResponse {
	if configs == nil {
		return &ConfigListResponse{
			Configs: []ConfigResponse{},
		}
	}

	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, len(configs)),
	}

	for i, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs[i] = *configResp
		}
	}

	return resp
}

// ApplyTo накладывает переданные значения запроса на конфигурацию
func (r *UpsertConfigRequest) ApplyTo(config *domain.BookingConfig) {
	if r.SlotGranularityMinutes != nil {
		config.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.HoldTTLSeconds != nil {
		config.HoldTTLSeconds = *r.HoldTTLSeconds
	}
	if r.AutoConfirm != nil {
		config.AutoConfirm = *r.AutoConfirm
	}
}
