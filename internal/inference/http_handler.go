package inference

import (
	"errors"
	"io"
	"net/http"

	"pigmemento/internal/httpx"
)

const multipartMemory = 8 << 20

type HTTPHandler struct {
	classifier *Classifier
}

func NewHTTPHandler(classifier *Classifier) *HTTPHandler {
	return &HTTPHandler{classifier: classifier}
}

// Infer handles POST /infer
// @Summary Classify a lesion image
// @Description Validates the uploaded image and returns placeholder probabilities
// @Tags inference
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Lesion image"
// @Success 200 {object} Result
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Router /infer [post]
func (h *HTTPHandler) Infer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if httpx.IsBodyTooLarge(err) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image file too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Expected a multipart form upload", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Image file is required",
			[]httpx.ErrorDetail{{Field: "file", Message: "file is required"}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.InternalError(w, r, "inference.read_upload", err)
		return
	}

	result, err := h.classifier.Infer(data)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_IMAGE", "Invalid image file", nil)
			return
		}
		httpx.InternalError(w, r, "inference.infer", err)
		return
	}
	httpx.JSONSuccess(w, result)
}
