// Package export serializes log records into downloadable JSON documents.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelgate/console/internal/models"
)

// Transformation labels distinguish the proxy-rewritten response body from
// the upstream original when both were recorded.
const (
	labelPostTransformation = "post-transformation"
	labelPreTransformation  = "pre-transformation"
)

// Payload groups one direction's headers and body.
type Payload struct {
	Headers string `json:"headers"`
	Body    string `json:"body"`
}

// ResponsePayload additionally carries the pre-transformation raw body
// when the proxy rewrote the response.
type ResponsePayload struct {
	Headers      string `json:"headers"`
	BodyLabel    string `json:"body_label,omitempty"`
	Body         string `json:"body"`
	RawBodyLabel string `json:"raw_body_label,omitempty"`
	RawBody      string `json:"raw_body,omitempty"`
}

// Document is the exported request/response record.
type Document struct {
	LogID         int64           `json:"log_id"`
	CreatedAt     time.Time       `json:"created_at"`
	ModelName     string          `json:"model_name"`
	ProviderName  string          `json:"provider_name"`
	ProviderModel string          `json:"provider_model"`
	Status        string          `json:"status"`
	Request       Payload         `json:"request"`
	Response      ResponsePayload `json:"response"`
}

// NewDocument builds the export document for one record.
func NewDocument(rec *models.LogRecord) Document {
	doc := Document{
		LogID:         rec.ID,
		CreatedAt:     rec.CreatedAt,
		ModelName:     rec.Name,
		ProviderName:  rec.ProviderName,
		ProviderModel: rec.ProviderModel,
		Status:        rec.Status,
		Request: Payload{
			Headers: rec.RequestHeaders,
			Body:    rec.RequestBody,
		},
		Response: ResponsePayload{
			Headers: rec.ResponseHeaders,
			Body:    rec.ResponseBody,
		},
	}
	if rec.HasRawResponse() {
		doc.Response.BodyLabel = labelPostTransformation
		doc.Response.RawBodyLabel = labelPreTransformation
		doc.Response.RawBody = rec.RawResponseBody
	}
	return doc
}

// Filename returns the content-addressed name for a record exported at
// the given time.
func Filename(id int64, at time.Time) string {
	return fmt.Sprintf("log-%d-request-response-%d.json", id, at.UnixMilli())
}

// Write serializes the record into dir and returns the written path.
func Write(dir string, rec *models.LogRecord) (string, error) {
	doc := NewDocument(rec)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export document: %w", err)
	}

	path := filepath.Join(dir, Filename(rec.ID, time.Now()))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
