package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avachat/avachat-web/internal/apperr"
	"github.com/avachat/avachat-web/internal/logger"
)

// errorResponse is the uniform error body. Status is the upstream
// HTTP status for generation failures and the last job status string
// for avatar timeouts; ID is only set when a job id is known.
type errorResponse struct {
	Error  string      `json:"error"`
	Detail string      `json:"detail,omitempty"`
	Status interface{} `json:"status,omitempty"`
	ID     string      `json:"id,omitempty"`
}

// writeError maps an error kind to its HTTP status code and JSON body.
func writeError(w http.ResponseWriter, err error) {
	var (
		valErr *apperr.ValidationError
		cfgErr *apperr.ConfigurationError
		upErr  *apperr.UpstreamError
		toErr  *apperr.TimeoutError
	)

	var code int
	var body errorResponse

	switch {
	case errors.As(err, &valErr):
		code = http.StatusBadRequest
		body = errorResponse{Error: valErr.Msg}
	case errors.As(err, &cfgErr):
		code = http.StatusInternalServerError
		body = errorResponse{Error: "service is not configured", Detail: cfgErr.Msg}
	case errors.As(err, &upErr):
		code = http.StatusBadGateway
		body = errorResponse{Error: "upstream service failed", Detail: upErr.Body}
		if upErr.StatusCode != 0 {
			body.Status = upErr.StatusCode
		}
	case errors.As(err, &toErr):
		code = http.StatusGatewayTimeout
		body = errorResponse{
			Error:  "video rendering did not complete before the deadline",
			ID:     toErr.JobID,
			Status: toErr.LastStatus,
		}
	default:
		logger.New().WithError(err).Error("unexpected failure")
		code = http.StatusInternalServerError
		body = errorResponse{Error: "internal error", Detail: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
