package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestIngestRequestJSON(t *testing.T) {
	req := NewIngestRequest("csv", "/data/export.csv")
	if req.RequestedAt.IsZero() {
		t.Fatal("RequestedAt not stamped")
	}

	data, err := req.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := IngestRequestFromJSON(data)
	if err != nil {
		t.Fatalf("IngestRequestFromJSON: %v", err)
	}
	if parsed.Source != "csv" || parsed.Path != "/data/export.csv" {
		t.Errorf("parsed = %+v", parsed)
	}
	if !parsed.RequestedAt.Equal(req.RequestedAt) {
		t.Errorf("timestamp changed: %s vs %s", parsed.RequestedAt, req.RequestedAt)
	}
}

func TestIngestRequestOmitsEmptyPath(t *testing.T) {
	req := &IngestRequest{Source: "sheets", RequestedAt: time.Now()}
	data, err := req.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.Contains(string(data), `"path"`) {
		t.Errorf("sheets request should omit path: %s", data)
	}
}

func TestIngestRequestFromJSONInvalid(t *testing.T) {
	if _, err := IngestRequestFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
