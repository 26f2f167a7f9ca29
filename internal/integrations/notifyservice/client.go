package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом уведомлений
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NotifyAppointmentCreated отправляет уведомление о создании записи
// Недоступность сервиса уведомлений не влияет на бронирование:
// возвращается ErrServiceDegraded, вызывающий логирует и продолжает
func (c *Client) NotifyAppointmentCreated(ctx context.Context, appointment *domain.Appointment) error {
	return c.send(ctx, eventAppointmentCreated, appointment)
}

// NotifyAppointmentCancelled отправляет уведомление об отмене записи
func (c *Client) NotifyAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error {
	return c.send(ctx, eventAppointmentCancelled, appointment)
}

func (c *Client) send(ctx context.Context, event string, appointment *domain.Appointment) error {
	c.log.Info("NotifyService: sending %s for appointment id=%d", event, appointment.ID)

	payload := newNotification(event, appointment)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность сервиса не критична для бронирования
		c.log.Error("NotifyService unavailable, applying graceful degradation for appointment id=%d: %v",
			appointment.ID, err)
		return fmt.Errorf("%w: appointment_id=%d, error=%v", ErrServiceDegraded, appointment.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusCreated:
		c.log.Info("NotifyService: %s delivered for appointment id=%d", event, appointment.ID)
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Error("NotifyService returned status %d for appointment id=%d: %s",
			resp.StatusCode, appointment.ID, string(respBody))
		return fmt.Errorf("%w: appointment_id=%d, status=%d", ErrServiceDegraded, appointment.ID, resp.StatusCode)
	}
}
