package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGradeLetter(t *testing.T) {
	assert.Equal(t, "A", GradeLetter(100))
	assert.Equal(t, "A", GradeLetter(90))
	assert.Equal(t, "B", GradeLetter(89.99))
	assert.Equal(t, "C", GradeLetter(70))
	assert.Equal(t, "D", GradeLetter(60))
	assert.Equal(t, "F", GradeLetter(59.99))
	assert.Equal(t, "F", GradeLetter(0))
}

func TestSubmissionDeadline(t *testing.T) {
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	submission := &Submission{StartedAt: started}

	t.Run("TimedTask", func(t *testing.T) {
		limit := 30
		task := &AssessmentTask{IsTimed: true, TimeLimitMinutes: &limit}
		deadline := submission.Deadline(task)
		assert.NotNil(t, deadline)
		assert.Equal(t, started.Add(30*time.Minute), *deadline)
	})

	t.Run("UntimedTask", func(t *testing.T) {
		assert.Nil(t, submission.Deadline(&AssessmentTask{}))
		assert.Nil(t, submission.Deadline(nil))

		// timed flag without a limit is treated as untimed
		assert.Nil(t, submission.Deadline(&AssessmentTask{IsTimed: true}))
	})
}
