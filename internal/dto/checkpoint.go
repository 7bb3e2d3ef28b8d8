package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// DateOnly parses a date field as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DateOnly struct{ t time.Time }

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		d.t = time.Time{}
		return nil
	}
	t, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

// Time returns the parsed value; zero if the field was absent or null.
func (d DateOnly) Time() time.Time { return d.t }

// ParseDate accepts "2006-01-02" or an RFC3339 datetime.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("date: use YYYY-MM-DD or RFC3339 datetime")
}

// ParseTodos decodes the todos form value. The client sends a JSON-encoded
// array; anything that does not decode as one is kept as a single-element
// list. The fallback is a deliberate leniency contract, not a convenience.
func ParseTodos(raw string) []string {
	var todos []string
	if err := json.Unmarshal([]byte(raw), &todos); err == nil {
		return todos
	}
	return []string{raw}
}

// AttachmentPayload is the wire shape of one attachment, both in responses
// and in the files array of an update.
type AttachmentPayload struct {
	StorageName  string    `json:"storageName"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	AccessPath   string    `json:"accessPath"`
	UploadDate   time.Time `json:"uploadDate"`
}

// UpdateCheckpointRequest is the JSON body for PUT /checkpoints/:id.
// It enumerates exactly the four mutable fields; unknown fields are rejected
// by DecodeUpdate rather than passed through.
type UpdateCheckpointRequest struct {
	Name  string              `json:"name"`
	Todos []string            `json:"todos"`
	Date  DateOnly            `json:"date"`
	Files []AttachmentPayload `json:"files"`
}

// DecodeUpdate decodes an update body, rejecting unknown fields.
func DecodeUpdate(r io.Reader) (UpdateCheckpointRequest, error) {
	var req UpdateCheckpointRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return UpdateCheckpointRequest{}, err
	}
	return req, nil
}

// DeleteFileRequest is the JSON body for POST /checkpoints/delete-file.
// CheckpointID is optional: when empty only the blob is removed, which is the
// path for files staged in the form but never attached to a saved record.
type DeleteFileRequest struct {
	AccessPath   string `json:"accessPath" binding:"required"`
	CheckpointID string `json:"checkpointId"`
}

// CheckpointResponse is the wire shape of one checkpoint.
type CheckpointResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Todos     []string            `json:"todos"`
	Date      time.Time           `json:"date"`
	Files     []AttachmentPayload `json:"files"`
	CreatedAt time.Time           `json:"createdAt"`
}

// DeleteCheckpointResponse confirms a checkpoint deletion.
type DeleteCheckpointResponse struct {
	Message string `json:"message"`
}

// DeleteFileResponse confirms a file deletion.
type DeleteFileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
