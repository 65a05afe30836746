package device

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jypelle/oledstat/apimodel"
	"github.com/jypelle/oledstat/internal/srv/config"
	"github.com/jypelle/oledstat/internal/srv/frame"
	"github.com/jypelle/oledstat/internal/srv/source"
)

func newTestApi(t *testing.T) (*Api, *Metrics) {
	t.Helper()
	param, err := config.ParseParam(config.ParamDefaultFile)
	if err != nil {
		t.Fatalf("ParseParam error: %v", err)
	}
	param.ApiParam.ApiKey = "key"
	sc := &config.ServerConfig{ConfigDir: t.TempDir(), ServerParam: param}
	metrics := NewMetrics()
	return NewApi(sc, metrics), metrics
}

func get(t *testing.T, handler http.Handler, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestApiRejectsWrongKey(t *testing.T) {
	api, _ := newTestApi(t)
	rec := get(t, api.Handler(), "/api/is_alive", "wrong")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var msg apimodel.ErrorMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.ErrMessage != "Forbidden" {
		t.Fatalf("unexpected message %q", msg.ErrMessage)
	}
}

func TestApiIsAlive(t *testing.T) {
	api, _ := newTestApi(t)
	if rec := get(t, api.Handler(), "/api/is_alive", "key"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := get(t, api.Handler(), "/api/unknown", "key"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestApiServesLastFrame(t *testing.T) {
	api, _ := newTestApi(t)
	renderedAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	lines := []string{"24-01-01 10:00 ext1", "Temp: 21.3°C  Hum: 55.0%"}
	api.SetFrame(frame.DisplayFrame{Lines: lines}, renderedAt)
	lines[0] = "mutated"

	rec := get(t, api.Handler(), "/api/frame", "key")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got apimodel.Frame
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Lines) != 2 || got.Lines[0] != "24-01-01 10:00 ext1" || !got.RenderedAt.Equal(renderedAt) {
		t.Fatalf("unexpected frame %+v", got)
	}
}

func TestApiMetricsNeedNoKey(t *testing.T) {
	api, metrics := newTestApi(t)
	value := 21.3
	metrics.ObserveReading(source.Reading{Signal: "temperature", SensorID: "ext1", Value: &value})
	metrics.FetchFailed("ext2")
	metrics.FrameRendered()

	rec := get(t, api.Handler(), "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`oledstat_reading{sensor_id="ext1",signal="temperature"} 21.3`,
		`oledstat_fetch_errors_total{sensor_id="ext2"} 1`,
		`oledstat_frames_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output misses %q:\n%s", want, body)
		}
	}
}
