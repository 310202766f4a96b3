package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/hermate-ai/internal/domain/symptomadvice"
)

const homeMessage = "HerMate AI Backend Running"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	adviceSvc symptomadvice.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(adviceSvc symptomadvice.Service, logger *slog.Logger) *Handler {
	return &Handler{
		adviceSvc: adviceSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Home is the liveness check.
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": homeMessage})
}

// SymptomAdvice validates the payload and returns AI generated advice.
// AI side failures still answer 200 with the fallback advice.
func (h *Handler) SymptomAdvice(c *gin.Context) {
	var req symptomadvice.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	payload, err := symptomadvice.Validate(req)
	if err != nil {
		var verr *symptomadvice.ValidationError
		if errors.As(err, &verr) {
			abortWithError(c, NewValidationHTTPError(verr))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	// symptom text and notes stay out of the logs
	h.logger.Info("symptom advice requested", "severity", payload.Severity, "cycle_day", payload.CycleDay, "request_id", requestIDFrom(c))

	result := h.adviceSvc.Advise(c.Request.Context(), payload)
	if result.Fallback() {
		h.logger.Warn("symptom advice served fallback", "failure", result.Failure.String(), "request_id", requestIDFrom(c))
	}

	c.JSON(http.StatusOK, gin.H{"advice": result.Advice})
}

// bindError maps a decode failure to a response. A well-formed body with a
// wrongly typed field is a validation failure on that field.
func bindError(err error) *HTTPError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewHTTPError(http.StatusBadRequest, "invalid_request", "request body too large", err)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if verr := symptomadvice.TypeViolation(typeErr.Field); verr != nil {
			return NewValidationHTTPError(verr)
		}
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be a valid JSON object", err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
