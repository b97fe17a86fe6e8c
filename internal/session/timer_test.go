package session

import (
	"testing"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReduceTick(t *testing.T) {
	t.Run("ElapsedIsMonotonic", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 3})
		for i := 1; i <= 5; i++ {
			s, _ = Reduce(s, Tick{})
			assert.Equal(t, i, s.Elapsed)
		}
		assert.Equal(t, -1, s.Remaining)
	})

	t.Run("CountsDownToZero", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 3, TimeLimitSeconds: 2})
		s, effects := Reduce(s, Tick{})
		assert.Equal(t, 1, s.Remaining)
		assert.Empty(t, effects)
		assert.Equal(t, PhaseActive, s.Phase)
	})

	t.Run("FiresTimeoutFinalizeExactlyOnce", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 3, TimeLimitSeconds: 1})

		s, effects := Reduce(s, Tick{})
		assert.Equal(t, 0, s.Remaining)
		assert.Equal(t, PhaseSubmitted, s.Phase)
		assert.Equal(t, []Effect{Finalize{Reason: models.EndReasonTimeout}}, effects)

		_, effects = Reduce(s, Tick{})
		assert.Empty(t, effects)
	})

	t.Run("FlushesDirtyAnswerBeforeTimeout", func(t *testing.T) {
		s := New(Config{
			Variant:          VariantSectioned,
			Questions:        testQuestionSet(),
			TimeLimitSeconds: 1,
		})
		key := Key{Section: models.SectionMCQ, QuestionID: 1, Index: 0}
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: ChoiceAnswer(1)})

		_, effects := Reduce(s, Tick{})
		assert.Equal(t, []Effect{
			SaveAnswer{Key: key, Answer: ChoiceAnswer(1)},
			Finalize{Reason: models.EndReasonTimeout},
		}, effects)
	})
}

func TestAutosave(t *testing.T) {
	key := Key{Section: models.SectionSAQ, QuestionID: 1, Index: 0}

	t.Run("FiresAfterInactivityWindow", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft")})

		for i := 0; i < AutosaveDelayTicks-1; i++ {
			var effects []Effect
			s, effects = Reduce(s, Tick{})
			assert.Empty(t, effects)
		}

		s, effects := Reduce(s, Tick{})
		assert.Equal(t, []Effect{SaveAnswer{Key: key, Answer: TextAnswer("draft")}}, effects)

		// flushed, further ticks save nothing
		_, effects = Reduce(s, Tick{})
		assert.Empty(t, effects)
	})

	t.Run("EditResetsWindow", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft")})
		s, _ = Reduce(s, Tick{})
		s, _ = Reduce(s, Tick{})
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft 2")})

		s, effects := Reduce(s, Tick{})
		assert.Empty(t, effects)
		s, effects = Reduce(s, Tick{})
		assert.Empty(t, effects)
		_, effects = Reduce(s, Tick{})
		assert.Equal(t, []Effect{SaveAnswer{Key: key, Answer: TextAnswer("draft 2")}}, effects)
	})

	t.Run("ExplicitSavePreemptsAutosave", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft")})
		s, effects := Reduce(s, Save{})
		assert.Len(t, effects, 1)

		for i := 0; i < AutosaveDelayTicks+1; i++ {
			s, effects = Reduce(s, Tick{})
			assert.Empty(t, effects)
		}
	})
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0:00", FormatTime(0))
	assert.Equal(t, "0:09", FormatTime(9))
	assert.Equal(t, "1:05", FormatTime(65))
	assert.Equal(t, "59:59", FormatTime(3599))
	assert.Equal(t, "1:00:00", FormatTime(3600))
	assert.Equal(t, "1:01:01", FormatTime(3661))
	assert.Equal(t, "0:00", FormatTime(-5))
}
