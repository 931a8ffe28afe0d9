package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/scoring"
)

type Status int

// default status in database is "queued"
const (
	StatusUnknown Status = iota
	StatusQueued
	StatusProcessing
	StatusCompleted
	StatusFailed
)

// Analysis is one resume-vs-job-description comparison moving through the
// pipeline. ResumeText, Result and ErrorMessage are filled in by the worker.
type Analysis struct {
	ID uuid.UUID `json:"id" db:"id"`

	Status Status `json:"status" db:"status"`

	FileName string `json:"file_name" db:"file_name"`

	JDText string `json:"-" db:"jd_text"`

	ResumeText *string `json:"resume_text,omitempty" db:"resume_text"`

	Result *scoring.Result `json:"result,omitempty" db:"result"`

	ErrorMessage *string `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "queued":
		return StatusQueued, nil
	case "processing":
		return StatusProcessing, nil
	case "completed":
		return StatusCompleted, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown analysis status %q", s)
	}
}
