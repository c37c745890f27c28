package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

// ErrorCode is a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is the error body of a failed request.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the envelope around every API response.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil)
}

func respondCreated(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusCreated, reqID, data, nil)
}

func respondError(w http.ResponseWriter, reqID string, status int, apiErr *APIError) {
	respondJSON(w, status, reqID, nil, apiErr)
}

// respondErr maps domain errors onto HTTP statuses.
func respondErr(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, sched.ErrInvalidBurst),
		errors.Is(err, sched.ErrInvalidArrival),
		errors.Is(err, sched.ErrUnknownAlgorithm),
		errors.Is(err, sched.ErrInvalidQuantum),
		errors.Is(err, sim.ErrArrivalInPast):
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: err.Error()})
	case errors.Is(err, sched.ErrProcessNotFound):
		respondError(w, reqID, http.StatusNotFound, &APIError{Code: ErrNotFound, Message: err.Error()})
	case errors.Is(err, sim.ErrFinished),
		errors.Is(err, sim.ErrNothingToUndo),
		errors.Is(err, sim.ErrAlreadyStarted),
		errors.Is(err, sim.ErrTickLimit):
		respondError(w, reqID, http.StatusConflict, &APIError{Code: ErrConflict, Message: err.Error()})
	default:
		respondError(w, reqID, http.StatusInternalServerError, &APIError{Code: ErrInternal, Message: err.Error()})
	}
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, apiErr *APIError) {
	resp := Response{
		Status:    "ok",
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Error:     apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
