package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/thyroid-dosage-api/data"
	"github.com/giygas/thyroid-dosage-api/health"
	"github.com/giygas/thyroid-dosage-api/interfaces"
	"github.com/giygas/thyroid-dosage-api/validation"
	"github.com/go-chi/chi/v5"
)

func newTestHandler() interfaces.HTTPHandler {
	store := data.NewReferenceContainer()
	return NewHTTPHandler(store, validation.NewProfileValidator(), health.NewHealthChecker(store))
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func getWithDoseParam(t *testing.T, handler http.HandlerFunc, dose string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/"+dose, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("dose", dose)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\nbody: %s", err, rr.Body.String())
	}
	return body
}

func TestCalculateLevothyroxine_Success(t *testing.T) {
	h := newTestHandler()

	rr := postJSON(t, h.CalculateLevothyroxine, "/dosage/levothyroxine",
		`{"currentTSH": 25, "weightKg": 60, "diagnosedHypothyroid": true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["medication"] != "levothyroxine" {
		t.Errorf("Expected medication levothyroxine, got %v", body["medication"])
	}
	if body["calculation_id"] == "" || body["calculation_id"] == nil {
		t.Error("Expected a calculation_id")
	}

	result := body["result"].(map[string]any)
	if result["dose"] != 100.0 {
		t.Errorf("Expected dose 100, got %v", result["dose"])
	}
	if result["unit"] != "mcg" {
		t.Errorf("Expected unit mcg, got %v", result["unit"])
	}
	if result["severity"] != "severe" {
		t.Errorf("Expected severity severe, got %v", result["severity"])
	}
}

func TestCalculateLevothyroxine_MissingWeight(t *testing.T) {
	h := newTestHandler()

	rr := postJSON(t, h.CalculateLevothyroxine, "/dosage/levothyroxine",
		`{"currentTSH": 25, "diagnosedHypothyroid": true}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing weight, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if !strings.Contains(body["message"].(string), "weight") {
		t.Errorf("Expected message about missing weight, got %v", body["message"])
	}
}

func TestCalculateLevothyroxine_UnsafeCombination(t *testing.T) {
	h := newTestHandler()

	// Suppressed TSH without a hypothyroid diagnosis reads as possible
	// hyperthyroidism
	rr := postJSON(t, h.CalculateLevothyroxine, "/dosage/levothyroxine",
		`{"currentTSH": 0.05, "weightKg": 70}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for unsafe combination, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCalculateLevothyroxine_BadRequests(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed JSON", `{"currentTSH": `},
		{"unknown field", `{"currentTSH": 25, "weightKg": 60, "tshLevel": 3}`},
		{"implausible weight", `{"currentTSH": 25, "weightKg": 900, "diagnosedHypothyroid": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, h.CalculateLevothyroxine, "/dosage/levothyroxine", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCalculateMethimazole_Success(t *testing.T) {
	h := newTestHandler()

	rr := postJSON(t, h.CalculateMethimazole, "/dosage/methimazole",
		`{"currentTSH": 0.05, "freeT4": 3.0, "freeT3": 5.0, "totalT4": 13.0, "totalT3": 220}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	result := body["result"].(map[string]any)
	if result["unit"] != "mg" {
		t.Errorf("Expected unit mg, got %v", result["unit"])
	}
	if result["dose"].(float64) <= 0 {
		t.Errorf("Expected a positive methimazole dose, got %v", result["dose"])
	}
}

func TestCalculateMethimazole_NeedsHormoneData(t *testing.T) {
	h := newTestHandler()

	// Suppressed TSH but no peripheral hormone values: soft-fail, not an
	// error
	rr := postJSON(t, h.CalculateMethimazole, "/dosage/methimazole",
		`{"currentTSH": 0.05}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for needs-data result, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	result := body["result"].(map[string]any)
	if result["requiresHormoneData"] != true {
		t.Errorf("Expected requiresHormoneData true, got %v", result["requiresHormoneData"])
	}
	missing := result["missingHormoneFields"].([]any)
	if len(missing) != 4 {
		t.Errorf("Expected 4 missing hormone fields, got %v", missing)
	}
}

func TestNearestSafeDoseEndpoint(t *testing.T) {
	h := newTestHandler()

	rr := getWithDoseParam(t, h.NearestSafeDose, "99")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["safe_dose_mcg"] != 100.0 {
		t.Errorf("Expected safe dose 100, got %v", body["safe_dose_mcg"])
	}
	if body["requested_mcg"] != 99.0 {
		t.Errorf("Expected requested 99, got %v", body["requested_mcg"])
	}
}

func TestNearestSafeDoseEndpoint_InvalidParam(t *testing.T) {
	h := newTestHandler()

	for _, dose := range []string{"abc", "-5", "0", ""} {
		rr := getWithDoseParam(t, h.NearestSafeDose, dose)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for dose %q, got %d", dose, rr.Code)
		}
	}
}

func TestNearestTabletEndpoint(t *testing.T) {
	h := newTestHandler()

	rr := getWithDoseParam(t, h.NearestTablet, "90")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["nearest_tablet_mcg"] != 88.0 {
		t.Errorf("Expected nearest tablet 88, got %v", body["nearest_tablet_mcg"])
	}
}

func TestSummarizeConditionsEndpoint(t *testing.T) {
	h := newTestHandler()

	rr := postJSON(t, h.SummarizeConditions, "/conditions/summary",
		`{"isPregnant": true, "pregnancyTrimester": 2, "hasOsteoporosis": true}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	summary := body["summary"].(string)
	if !strings.Contains(summary, "Pregnancy (trimester 2)") {
		t.Errorf("Expected pregnancy in summary, got %q", summary)
	}
	if !strings.Contains(summary, "Osteoporosis") {
		t.Errorf("Expected osteoporosis in summary, got %q", summary)
	}
}

func TestServeReference(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/reference", nil)
	rr := httptest.NewRecorder()
	h.ServeReference(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	body := decodeBody(t, rr)
	if body["source"] != "builtin" {
		t.Errorf("Expected source builtin, got %v", body["source"])
	}

	reference := body["reference"].(map[string]any)
	if _, ok := reference["safeDoses"]; !ok {
		t.Error("Expected reference payload to include the safe dose ladder")
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}

	nextUpdate, ok := body["next_update"].(string)
	if !ok || nextUpdate == "" {
		t.Fatalf("Expected next_update, got %v", body["next_update"])
	}
	if _, err := time.Parse(time.RFC3339, nextUpdate); err != nil {
		t.Errorf("next_update should be RFC3339: %v", err)
	}
}

func BenchmarkCalculateLevothyroxineEndpoint(b *testing.B) {
	h := newTestHandler()
	body := []byte(`{"currentTSH": 25, "weightKg": 60, "diagnosedHypothyroid": true}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/dosage/levothyroxine", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.CalculateLevothyroxine(rr, req)
		if rr.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rr.Code)
		}
	}
}
