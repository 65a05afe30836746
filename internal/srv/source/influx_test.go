package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const latestCsv = `#datatype,string,long,dateTime:RFC3339,dateTime:RFC3339,dateTime:RFC3339,double,string,string,string
#group,false,false,true,true,false,false,true,true,true
#default,_result,,,,,,,,
,result,table,_start,_stop,_time,_value,_field,_measurement,sensor_id
,,0,2024-01-01T09:50:00Z,2024-01-01T10:00:00Z,2024-01-01T10:00:00Z,21.3,temperature,climate,ext1
,,1,2024-01-01T09:50:00Z,2024-01-01T10:00:00Z,2024-01-01T10:00:00Z,55,humidity,climate,ext1

`

func TestInfluxStoreQuery(t *testing.T) {
	var gotOrg, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/v2/query") {
			http.NotFound(w, r)
			return
		}
		gotOrg = r.URL.Query().Get("org")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(latestCsv))
	}))
	defer server.Close()

	store := NewInfluxStore(server.URL, "secret", "home", 5*time.Second)
	defer store.Close()

	rows, err := store.Query(context.Background(), `from(bucket: "sensors") |> range(start: -600s)`)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if gotOrg != "home" {
		t.Fatalf("org mismatch: got %q", gotOrg)
	}
	if gotAuth != "Token secret" {
		t.Fatalf("authorization mismatch: got %q", gotAuth)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Field != "temperature" || rows[0].Value != 21.3 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[0].Tags["sensor_id"] != "ext1" {
		t.Fatalf("sensor tag missing: %+v", rows[0].Tags)
	}
	if _, ok := rows[0].Tags["result"]; ok {
		t.Fatalf("result column must not be a tag: %+v", rows[0].Tags)
	}
	if !rows[1].Time.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", rows[1].Time)
	}
}

func TestInfluxStoreQueryUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized","message":"unauthorized access"}`))
	}))
	defer server.Close()

	store := NewInfluxStore(server.URL, "wrong", "home", time.Second)
	defer store.Close()

	if _, err := store.Query(context.Background(), `from(bucket: "sensors")`); err == nil {
		t.Fatalf("expected an error for a rejected token")
	}
}
