package analysis

import (
	"time"
)

// JobID tipe untuk Job
type JobID string

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusScraping  Status = "scraping"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job satu unit kerja analisa; dimiliki eksklusif oleh orchestrator
// selama in-flight, read-only untuk gateway
type Job struct {
	ID          JobID      `json:"id"`
	ProductID   string     `json:"productId"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	Message     string     `json:"message"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// JobUpdate partial update yang di-merge ke Job tersimpan
// (read-modify-write, last-writer-wins)
type JobUpdate struct {
	Status      Status
	Progress    int
	Message     string
	ProductID   string
	CompletedAt *time.Time
	Error       string
}

// Apply merges the update into j. Status, progress and message are always
// overwritten; the remaining fields only when set.
func (u JobUpdate) Apply(j *Job) {
	j.Status = u.Status
	j.Progress = u.Progress
	j.Message = u.Message
	if u.ProductID != "" {
		j.ProductID = u.ProductID
	}
	if u.CompletedAt != nil {
		j.CompletedAt = u.CompletedAt
	}
	if u.Error != "" {
		j.Error = u.Error
	}
}
