package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobUpdateApply(t *testing.T) {
	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	job := Job{
		ID:        "job-1",
		Status:    StatusScraping,
		Progress:  10,
		Message:   "Scraping product data...",
		StartedAt: started,
	}

	JobUpdate{Status: StatusAnalyzing, Progress: 50, Message: "Analyzing reviews...", ProductID: "abc"}.Apply(&job)

	assert.Equal(t, StatusAnalyzing, job.Status)
	assert.Equal(t, 50, job.Progress)
	assert.Equal(t, "Analyzing reviews...", job.Message)
	assert.Equal(t, "abc", job.ProductID)
	assert.Equal(t, started, job.StartedAt, "merge must keep fields the update does not carry")
	assert.Nil(t, job.CompletedAt)

	// update berikutnya tanpa ProductID tidak boleh menghapusnya
	done := started.Add(time.Minute)
	JobUpdate{Status: StatusCompleted, Progress: 100, Message: "Analysis complete!", CompletedAt: &done}.Apply(&job)

	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, "abc", job.ProductID)
	assert.Equal(t, done, *job.CompletedAt)
	assert.Empty(t, job.Error)
}

func TestJobUpdateApplyFailure(t *testing.T) {
	job := Job{ID: "job-2", Status: StatusAnalyzing, Progress: 50, ProductID: "abc"}

	JobUpdate{Status: StatusFailed, Progress: 0, Message: "Analysis failed", Error: "page returned 502"}.Apply(&job)

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, "page returned 502", job.Error)
	assert.Equal(t, "abc", job.ProductID)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusScraping.Terminal())
	assert.False(t, StatusAnalyzing.Terminal())
	assert.False(t, StatusPending.Terminal())
}
