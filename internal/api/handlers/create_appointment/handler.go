package create_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberia/booking-service/internal/api/handlers"
	createAppointment "github.com/barberia/booking-service/internal/usecase/create_appointment"
)

const (
	msgInvalidBusinessID    = "некорректный ID бизнеса"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartAt       = "некорректный формат времени начала, ожидается RFC 3339"
	msgSlotUnavailable      = "выбранный временной слот недоступен"
	msgBusinessNotFound     = "бизнес не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgProfessionalNotFound = "мастер не найден"
	msgInvalidStartTime     = "некорректное время начала записи"
	msgDateTooFar           = "дата слишком далеко в будущем"
	msgInvalidClientData    = "некорректные данные клиента"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /businesses/{id}/appointments - Slot unavailable: business_id=%d, professional_id=%d",
				businessID, req.ProfessionalID)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(msgSlotUnavailable, useCaseReq))

		case errors.Is(err, createAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/appointments - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /businesses/{id}/appointments - Service not found: business_id=%d, service_id=%d",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrProfessionalNotFound):
			h.logger.Warn("POST /businesses/{id}/appointments - Professional not found: business_id=%d, professional_id=%d",
				businessID, req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createAppointment.ErrInvalidStartTime):
			h.logger.Warn("POST /businesses/{id}/appointments - Invalid start time: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidStartTime)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /businesses/{id}/appointments - Date too far in future: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidClientData)

		default:
			h.logger.Error("POST /businesses/{id}/appointments - Failed to create appointment: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /businesses/{id}/appointments - Appointment created: appointment_id=%d, business_id=%d, status=%s",
		result.AppointmentID, businessID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
