package create_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberia/booking-service/internal/api/handlers"
	createHold "github.com/barberia/booking-service/internal/usecase/create_hold"
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
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/holds - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/holds - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrSlotUnavailable):
			h.logger.Warn("POST /businesses/{id}/holds - Slot unavailable: business_id=%d, professional_id=%d",
				businessID, req.ProfessionalID)
			handlers.RespondJSON(w, http.StatusConflict, NewConflictResponse(msgSlotUnavailable, useCaseReq))

		case errors.Is(err, createHold.ErrBusinessNotFound):
			h.logger.Warn("POST /businesses/{id}/holds - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createHold.ErrServiceNotFound):
			h.logger.Warn("POST /businesses/{id}/holds - Service not found: business_id=%d, service_id=%d",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createHold.ErrProfessionalNotFound):
			h.logger.Warn("POST /businesses/{id}/holds - Professional not found: business_id=%d, professional_id=%d",
				businessID, req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createHold.ErrInvalidStartTime):
			h.logger.Warn("POST /businesses/{id}/holds - Invalid start time: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgInvalidStartTime)

		case errors.Is(err, createHold.ErrDateTooFarInFuture):
			h.logger.Warn("POST /businesses/{id}/holds - Date too far in future: business_id=%d", businessID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /businesses/{id}/holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /businesses/{id}/holds - Failed to create hold: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /businesses/{id}/holds - Hold created: hold_id=%s, business_id=%d, professional_id=%d",
		result.HoldID, businessID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
