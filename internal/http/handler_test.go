package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adilzhm/garagelog/internal/auth"
	"github.com/adilzhm/garagelog/internal/http/middleware"
	"github.com/adilzhm/garagelog/internal/ledger"
	"github.com/adilzhm/garagelog/internal/report"
	"github.com/adilzhm/garagelog/internal/storage/sqlite"
)

// setupTestServer builds the full stack (sqlite store, coordinator, router)
// and returns a server plus a valid bearer token for one owner.
func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "garagelog-http-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	coord := ledger.New(store, ledger.NewMetrics(nil))
	manager := auth.NewManager("test-secret-at-least-32-bytes-long", time.Hour)
	handler := NewHandler(coord, report.NewGenerator())
	router := NewRouter(handler, middleware.Auth(manager), "test")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token, err := manager.Generate("owner-1")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return server, token
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func TestAuthRequired(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/vehicles", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/vehicles", "not-a-valid-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestVehicleLifecycleScenario(t *testing.T) {
	server, token := setupTestServer(t)

	// Create a car.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/vehicles", token, map[string]any{
		"class": "Car", "plate": "KZ 001",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create vehicle: status = %d, body = %v", resp.StatusCode, body)
	}
	vehicleID, _ := body["id"].(string)
	if vehicleID == "" {
		t.Fatalf("expected vehicle id in response, got %v", body)
	}

	// Duplicate plate for the same owner is a conflict.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/vehicles", token, map[string]any{
		"class": "Motorcycle", "plate": "KZ 001",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate plate: status = %d, want 409", resp.StatusCode)
	}

	// A 5200 trip makes both services due on a car.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/vehicles/"+vehicleID+"/trips", token, map[string]any{
		"date": "2026-08-01", "distance": 5200.0, "label": "summer trip",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add trip: status = %d, body = %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/vehicles/"+vehicleID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get vehicle: status = %d", resp.StatusCode)
	}
	if body["total_distance"] != 5200.0 {
		t.Errorf("total_distance = %v, want 5200", body["total_distance"])
	}
	if body["oil_due"] != true || body["maintenance_due"] != true {
		t.Errorf("due flags = %v/%v, want true/true", body["oil_due"], body["maintenance_due"])
	}

	// Oil service resets only the oil counter.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/vehicles/"+vehicleID+"/services", token, map[string]any{
		"kind": "Oil",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("perform service: status = %d, body = %v", resp.StatusCode, body)
	}
	if _, hasWarning := body["warning"]; hasWarning {
		t.Errorf("unexpected warning: %v", body["warning"])
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/vehicles/"+vehicleID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get vehicle: status = %d", resp.StatusCode)
	}
	if body["last_oil_service_distance"] != 5200.0 {
		t.Errorf("last_oil_service_distance = %v, want 5200", body["last_oil_service_distance"])
	}
	if body["oil_due"] != false {
		t.Errorf("oil_due = %v, want false after service", body["oil_due"])
	}
	if body["maintenance_due"] != true {
		t.Errorf("maintenance_due = %v, want true (unaffected)", body["maintenance_due"])
	}
	history, _ := body["history"].([]any)
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}

func TestTripValidationAndDelete(t *testing.T) {
	server, token := setupTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/vehicles", token, map[string]any{
		"class": "Motorcycle", "plate": "MOTO 1",
	})
	vehicleID, _ := body["id"].(string)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/vehicles/"+vehicleID+"/trips", token, map[string]any{
		"date": "2026-08-01", "distance": -5.0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative distance: status = %d, want 400", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/vehicles/"+vehicleID+"/trips", token, map[string]any{
		"date": "2026-08-02", "distance": 120.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add trip: status = %d", resp.StatusCode)
	}
	trip, _ := body["trip"].(map[string]any)
	tripID, _ := trip["id"].(string)
	if tripID == "" {
		t.Fatalf("expected trip id, got %v", body)
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/trips/"+tripID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete trip: status = %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/trips/"+tripID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("repeated delete: status = %d, want 404", resp.StatusCode)
	}

	_, body = doJSON(t, http.MethodGet, server.URL+"/api/vehicles/"+vehicleID, token, nil)
	if body["total_distance"] != 0.0 {
		t.Errorf("total_distance = %v, want 0 after deleting the only trip", body["total_distance"])
	}
}

func TestVehicleReportDownload(t *testing.T) {
	server, token := setupTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/vehicles", token, map[string]any{
		"class": "Car", "plate": "REP 1",
	})
	vehicleID, _ := body["id"].(string)

	for _, format := range []string{"xlsx", "pdf"} {
		t.Run(format, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet,
				fmt.Sprintf("%s/api/vehicles/%s/report?format=%s", server.URL, vehicleID, format), nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("report request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			content, _ := io.ReadAll(resp.Body)
			if len(content) == 0 {
				t.Error("expected non-empty report body")
			}
			if resp.Header.Get("Content-Disposition") == "" {
				t.Error("expected attachment Content-Disposition")
			}
		})
	}
}

func TestOwnerIsolationOverHTTP(t *testing.T) {
	server, token := setupTestServer(t)

	_, body := doJSON(t, http.MethodPost, server.URL+"/api/vehicles", token, map[string]any{
		"class": "Car", "plate": "ISO 1",
	})
	vehicleID, _ := body["id"].(string)

	manager := auth.NewManager("test-secret-at-least-32-bytes-long", time.Hour)
	otherToken, err := manager.Generate("owner-2")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/vehicles/"+vehicleID, otherToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign owner access: status = %d, want 404", resp.StatusCode)
	}
}
