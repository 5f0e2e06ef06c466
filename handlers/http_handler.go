// Package handlers provides HTTP request handlers for the thyroid dosage API
// endpoints. This file implements the HTTPHandler interface with dependency
// injection.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/giygas/thyroid-dosage-api/dosage"
	"github.com/giygas/thyroid-dosage-api/dosage/entities"
	"github.com/giygas/thyroid-dosage-api/interfaces"
	"github.com/giygas/thyroid-dosage-api/logging"
	"github.com/giygas/thyroid-dosage-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.ReferenceStore
	validator interfaces.ProfileValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.ReferenceStore, validator interfaces.ProfileValidator, health interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		health:    health,
	}
}

// calculationResponse is the envelope for both medication endpoints.
type calculationResponse struct {
	CalculationID string                 `json:"calculation_id"`
	Medication    string                 `json:"medication"`
	Result        *entities.DosageResult `json:"result"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// decodeProfile reads and validates the patient profile from the request
// body. A false return means the response has already been written.
func (h *HTTPHandlerImpl) decodeProfile(w http.ResponseWriter, r *http.Request, medication string) (*entities.PatientProfile, bool) {
	var profile entities.PatientProfile

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&profile); err != nil {
		if errors.Is(err, io.EOF) {
			h.RespondWithError(w, http.StatusBadRequest, "Request body is required")
		} else {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		}
		if medication != "" {
			metrics.CalculationsTotal.WithLabelValues(medication, "invalid_input").Inc()
		}
		return nil, false
	}

	if err := h.validator.ValidateProfile(&profile); err != nil {
		logging.Warn("Implausible patient profile rejected", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		if medication != "" {
			metrics.CalculationsTotal.WithLabelValues(medication, "invalid_input").Inc()
		}
		return nil, false
	}

	return &profile, true
}

// respondCalculation maps an engine result or error onto HTTP semantics.
// Missing required inputs are the caller's fault (400); clinically unsafe
// combinations are well-formed requests the engine refuses to dose (422).
func (h *HTTPHandlerImpl) respondCalculation(w http.ResponseWriter, medication string, result *entities.DosageResult, err error, elapsed time.Duration) {
	metrics.CalculationDuration.WithLabelValues(medication).Observe(elapsed.Seconds())

	if err != nil {
		switch {
		case dosage.IsMissingInputError(err):
			metrics.CalculationsTotal.WithLabelValues(medication, "invalid_input").Inc()
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
		case dosage.IsUnsafeCombinationError(err):
			metrics.CalculationsTotal.WithLabelValues(medication, "unsafe").Inc()
			h.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			logging.Error("Dosage calculation failed", "medication", medication, "error", err)
			metrics.CalculationsTotal.WithLabelValues(medication, "error").Inc()
			h.RespondWithError(w, http.StatusInternalServerError, "Calculation failed")
		}
		return
	}

	outcome := "ok"
	if result.RequiresHormoneData {
		outcome = "needs_data"
	}
	metrics.CalculationsTotal.WithLabelValues(medication, outcome).Inc()
	if len(result.Alerts) > 0 {
		metrics.AlertsEmitted.WithLabelValues(medication).Add(float64(len(result.Alerts)))
	}

	h.RespondWithJSON(w, http.StatusOK, calculationResponse{
		CalculationID: uuid.NewString(),
		Medication:    medication,
		Result:        result,
	})
}

// CalculateLevothyroxine handles POST /dosage/levothyroxine
func (h *HTTPHandlerImpl) CalculateLevothyroxine(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.decodeProfile(w, r, "levothyroxine")
	if !ok {
		return
	}

	calc := dosage.NewCalculator(h.store.GetReferenceData())

	start := time.Now()
	result, err := calc.CalculateLevothyroxine(profile)
	h.respondCalculation(w, "levothyroxine", result, err, time.Since(start))
}

// CalculateMethimazole handles POST /dosage/methimazole
func (h *HTTPHandlerImpl) CalculateMethimazole(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.decodeProfile(w, r, "methimazole")
	if !ok {
		return
	}

	calc := dosage.NewCalculator(h.store.GetReferenceData())

	start := time.Now()
	result, err := calc.CalculateMethimazole(profile)
	h.respondCalculation(w, "methimazole", result, err, time.Since(start))
}

// NearestSafeDose handles GET /rounding/safe/{dose}
func (h *HTTPHandlerImpl) NearestSafeDose(w http.ResponseWriter, r *http.Request) {
	dose, err := h.validator.ParseDose(chi.URLParam(r, "dose"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc := dosage.NewCalculator(h.store.GetReferenceData())
	safeDose, err := calc.NearestSafeDose(dose)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requested_mcg": dose,
		"safe_dose_mcg": safeDose,
	})
}

// NearestTablet handles GET /rounding/tablet/{dose}
func (h *HTTPHandlerImpl) NearestTablet(w http.ResponseWriter, r *http.Request) {
	dose, err := h.validator.ParseDose(chi.URLParam(r, "dose"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc := dosage.NewCalculator(h.store.GetReferenceData())
	tablet, err := calc.NearestTablet(dose)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requested_mcg":      dose,
		"nearest_tablet_mcg": tablet,
	})
}

// SummarizeConditions handles POST /conditions/summary
func (h *HTTPHandlerImpl) SummarizeConditions(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.decodeProfile(w, r, "")
	if !ok {
		return
	}

	calc := dosage.NewCalculator(h.store.GetReferenceData())

	h.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"summary": calc.SummarizeConditions(profile),
	})
}

// ServeReference handles GET /reference and returns the active reference
// tables together with their provenance.
func (h *HTTPHandlerImpl) ServeReference(w http.ResponseWriter, r *http.Request) {
	lastUpdated := h.store.GetLastUpdated()

	response := map[string]interface{}{
		"source":    h.store.GetSource(),
		"reference": h.store.GetReferenceData(),
	}
	if !lastUpdated.IsZero() {
		response["last_updated"] = lastUpdated.Format(time.RFC3339)
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// HealthCheck handles GET /health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()

	uptime := time.Since(h.store.GetServerStartTime())

	response := map[string]interface{}{
		"status":         status,
		"uptime_seconds": int(uptime.Seconds()),
		"next_update":    h.health.CalculateNextUpdate().Format(time.RFC3339),
		"data":           details,
	}

	h.RespondWithJSON(w, httpStatus, response)
}
