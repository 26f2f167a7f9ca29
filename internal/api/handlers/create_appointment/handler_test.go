package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createAppointment "github.com/barberia/booking-service/internal/usecase/create_appointment"
)

type fakeUseCase struct {
	resp *createAppointment.Response
	err  error
	got  *createAppointment.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func doRequest(t *testing.T, uc *fakeUseCase, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/businesses/{businessId}/appointments", handler.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func mustParseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

const validBody = `{
	"serviceId": 10,
	"professionalId": 7,
	"startAt": "2026-09-10T11:00:00Z",
	"client": {"name": "Maria Lopez", "phone": "+34 600 000 001"}
}`

func TestHandle(t *testing.T) {
	t.Run("ConflictCarriesAvailabilityHint", func(t *testing.T) {
		uc := &fakeUseCase{err: createAppointment.ErrSlotUnavailable}

		rec := doRequest(t, uc, "/api/v1/businesses/1/appointments", validBody)

		require.Equal(t, http.StatusConflict, rec.Code)

		var resp ConflictResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		// Клиент должен суметь обновить доступность по одной подсказке
		assert.Equal(t, "SLOT_UNAVAILABLE", resp.Code)
		assert.Equal(t, "REFRESH_AVAILABILITY", resp.Action)
		assert.Equal(t, "2026-09-10", resp.AvailabilityHint.Date)
		assert.Equal(t, int64(7), resp.AvailabilityHint.ProfessionalID)
		assert.Equal(t, int64(10), resp.AvailabilityHint.ServiceID)
	})

	t.Run("Created", func(t *testing.T) {
		startAt, endAt := mustParseRFC3339(t, "2026-09-10T11:00:00Z"), mustParseRFC3339(t, "2026-09-10T11:30:00Z")
		uc := &fakeUseCase{resp: &createAppointment.Response{
			AppointmentID:  42,
			BusinessID:     1,
			ServiceID:      10,
			ProfessionalID: 7,
			Status:         "confirmed",
			StartAt:        startAt,
			EndAt:          endAt,
			ServiceName:    "Haircut",
			ServicePrice:   25,
		}}

		rec := doRequest(t, uc, "/api/v1/businesses/1/appointments", validBody)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, uc.got)
		assert.Equal(t, int64(1), uc.got.BusinessID)

		var resp AppointmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.AppointmentID)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "2026-09-10T11:00:00Z", resp.StartAt)
		assert.Equal(t, "2026-09-10T11:30:00Z", resp.EndAt)
	})

	t.Run("InvalidStartAtIsBadRequest", func(t *testing.T) {
		uc := &fakeUseCase{}

		rec := doRequest(t, uc, "/api/v1/businesses/1/appointments",
			`{"serviceId": 10, "professionalId": 7, "startAt": "сегодня", "client": {"name": "a", "phone": "b"}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("InvalidBusinessIDIsBadRequest", func(t *testing.T) {
		uc := &fakeUseCase{}

		rec := doRequest(t, uc, "/api/v1/businesses/abc/appointments", validBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})
}
