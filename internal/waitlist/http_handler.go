package waitlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"pigmemento/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Fields are passed to the service untouched; it owns trimming and
// validation.
type joinReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type joinResp struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type checkReq struct {
	Email string `json:"email"`
}

type checkResp struct {
	OK     bool `json:"ok"`
	Exists bool `json:"exists"`
}

// Join handles POST /waitlist
// @Summary Join the waitlist
// @Description Registers a name and email. Repeated signups for the same email succeed without a second row.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body joinReq true "Signup"
// @Success 201 {object} joinResp "Newly added"
// @Success 200 {object} joinResp "Already registered"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /waitlist [post]
func (h *HTTPHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := h.service.Join(r.Context(), req.Name, req.Email)
	if err != nil {
		if writeInvalidInput(w, r, err) {
			return
		}
		httpx.InternalError(w, r, "waitlist.join", err)
		return
	}

	resp := joinResp{OK: true, Message: status.Message()}
	if status == StatusAdded {
		httpx.JSONSuccessCreated(w, resp)
		return
	}
	httpx.JSONSuccess(w, resp)
}

// Check handles POST /waitlist/check
// @Summary Check waitlist membership
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body checkReq true "Email to look up"
// @Success 200 {object} checkResp
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /waitlist/check [post]
func (h *HTTPHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if !decodeJSON(w, r, &req) {
		return
	}

	exists, err := h.service.Check(r.Context(), req.Email)
	if err != nil {
		if writeInvalidInput(w, r, err) {
			return
		}
		httpx.InternalError(w, r, "waitlist.check", err)
		return
	}
	httpx.JSONSuccess(w, checkResp{OK: true, Exists: exists})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if httpx.IsBodyTooLarge(err) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return false
	}
	return true
}

func writeInvalidInput(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, ErrInvalidInput) {
		return false
	}
	var details []httpx.ErrorDetail
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		details = append(details, httpx.ErrorDetail{Field: inputErr.Field, Message: inputErr.Message})
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
	return true
}
