package amqp

import (
	"encoding/json"
	"time"
)

// IngestRequest asks the worker to run the pipeline over one export.
// Source selects the reader backend ("csv" or "sheets"); Path is the export
// file for the csv backend and empty for sheets.
type IngestRequest struct {
	Source      string    `json:"source"`
	Path        string    `json:"path,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewIngestRequest builds a request stamped with the current time.
func NewIngestRequest(source, path string) *IngestRequest {
	return &IngestRequest{
		Source:      source,
		Path:        path,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the request to JSON bytes.
func (m *IngestRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// IngestRequestFromJSON parses a request from JSON bytes.
func IngestRequestFromJSON(data []byte) (*IngestRequest, error) {
	var msg IngestRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
