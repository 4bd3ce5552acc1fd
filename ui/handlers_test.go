package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotidy/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.MaxUploadRows = 1000
	cfg.Convert.Separator = "."
	cfg.Profiling.Workers = 2
	return NewApp(cfg)
}

func doJSON(t *testing.T, app *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStrategiesEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodGet, "/api/strategies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	strategies, ok := body["strategies"].([]interface{})
	if !ok || len(strategies) != 4 {
		t.Fatalf("expected 4 strategies, got %v", body["strategies"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/analyze",
		`{"table":[{"id":1,"info":{"a":1}},{"id":2,"info":{"a":2}}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["recommended_strategy"] != "normalize_only" {
		t.Errorf("expected normalize_only, got %v", body["recommended_strategy"])
	}
}

func TestConvertEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/convert",
		`{"table":[{"id":1,"tags":["a","b"]},{"id":2,"tags":["c"]}],"strategy":"normalize_explode"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)

	summary := body["summary"].(map[string]interface{})
	if summary["output_rows"].(float64) != 3 {
		t.Errorf("expected 3 output rows, got %v", summary["output_rows"])
	}
	tbl := body["table"].(map[string]interface{})
	records := tbl["records"].([]interface{})
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestConvertUnsupportedStrategyIs400(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/convert",
		`{"table":[{"a":1}],"strategy":"explode_everything"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != "UNSUPPORTED" {
		t.Errorf("expected code UNSUPPORTED, got %v", body["code"])
	}
}

func TestConvertCustomSeparator(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/convert",
		`{"table":[{"info":{"age":30}}],"strategy":"normalize_only","options":{"separator":"__"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	cols := body["table"].(map[string]interface{})["columns"].([]interface{})
	if cols[0] != "info__age" {
		t.Errorf("expected info__age, got %v", cols)
	}
}

func TestProfileEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/profile",
		`{"table":[{"x":1},{"x":2},{"x":3}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["total_rows"].(float64) != 3 {
		t.Errorf("expected 3 rows, got %v", body["total_rows"])
	}
}

func TestProfileEmptyTableIs400(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/profile", `{"table":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQualityEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/quality",
		`{"table":[{"a":1,"b":"x"},{"a":2,"b":"y"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["score"].(float64) != 100 {
		t.Errorf("expected score 100, got %v", body["score"])
	}
}

func TestCleanEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/clean",
		`{"table":[{"v":10},{"v":null},{"v":20},{"v":10}],"missing":{"strategy":"mean"},"remove_duplicates":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	records := body["table"].(map[string]interface{})["records"].([]interface{})
	// Mean fill turns the null row into 13.333..., dedupe drops the repeated 10.
	if len(records) != 3 {
		t.Errorf("expected 3 records after cleaning, got %d", len(records))
	}
}

func TestCleanUnknownStrategyIs400(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/clean",
		`{"table":[{"v":1}],"missing":{"strategy":"interpolate"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReportEndpoint(t *testing.T) {
	rec := doJSON(t, newTestApp(t), http.MethodPost, "/api/report",
		`{"table":[{"x":1,"tags":["a"]},{"x":2,"tags":["b","c"]}],"title":"T","strategy":"normalize_explode"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["title"] != "T" {
		t.Errorf("expected title T, got %v", body["title"])
	}
	if body["html"] == nil || body["markdown"] == nil {
		t.Error("report should carry markdown and html")
	}
}

func TestRequestValidation(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, http.MethodPost, "/api/analyze", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, app, http.MethodPost, "/api/analyze", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing table: expected 400, got %d", rec.Code)
	}
}

func TestUploadRowCap(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.MaxUploadRows = 1
	cfg.Convert.Separator = "."
	cfg.Profiling.Workers = 1
	app := NewApp(cfg)

	rec := doJSON(t, app, http.MethodPost, "/api/analyze", `{"table":[{"a":1},{"a":2}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over the row cap, got %d", rec.Code)
	}
}
