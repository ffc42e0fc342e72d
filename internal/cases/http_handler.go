package cases

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pigmemento/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /cases
// @Summary List practice cases
// @Description Return catalogue cases in order, optionally filtered by difficulty
// @Tags cases
// @Produce json
// @Param limit query int false "Maximum number of cases" default(20)
// @Param difficulty query string false "easy, med or hard"
// @Success 200 {array} Case
// @Failure 400 {object} httpx.ErrorResponse
// @Router /cases [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := Query{Limit: DefaultLimit}

	var details []httpx.ErrorDetail
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			details = append(details, httpx.ErrorDetail{Field: "limit", Message: "limit must be a positive integer"})
		} else {
			q.Limit = limit
		}
	}
	if raw := query.Get("difficulty"); raw != "" {
		d, err := ParseDifficulty(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "difficulty", Message: "difficulty must be one of: easy med hard"})
		} else {
			q.Difficulty = d
		}
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	items, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.InternalError(w, r, "cases.list", err)
		return
	}
	httpx.JSONSuccess(w, items)
}

// Get handles GET /cases/{id}
// @Summary Get a practice case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} Case
// @Failure 404 {object} httpx.ErrorResponse
// @Router /cases/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		httpx.InternalError(w, r, "cases.get", err)
		return
	}
	httpx.JSONSuccess(w, c)
}

type answerReq struct {
	ChosenLabel string `json:"chosenLabel" validate:"required,max=32"`
}

// Answer handles POST /cases/{id}/answer
// @Summary Grade an answer for a practice case
// @Description Compares the chosen label with the case label and reveals the teaching points. Nothing is stored.
// @Tags cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body answerReq true "Chosen label"
// @Success 200 {object} Feedback
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /cases/{id}/answer [post]
func (h *HTTPHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if httpx.IsBodyTooLarge(err) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	feedback, err := h.service.Answer(r.Context(), r.PathValue("id"), req.ChosenLabel)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
		case errors.Is(err, ErrInvalidLabel):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
				[]httpx.ErrorDetail{{Field: "chosenLabel", Message: "chosenLabel must be one of: benign malignant"}})
		default:
			httpx.InternalError(w, r, "cases.answer", err)
		}
		return
	}
	httpx.JSONSuccess(w, feedback)
}
