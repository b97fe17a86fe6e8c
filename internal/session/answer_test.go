package session

import (
	"testing"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	t.Run("ParsesSimpleSection", func(t *testing.T) {
		key, err := ParseKey("mcq_3_0")
		assert.NoError(t, err)
		assert.Equal(t, Key{Section: models.SectionMCQ, QuestionID: 3, Index: 0}, key)
	})

	t.Run("ParsesSectionWithUnderscore", func(t *testing.T) {
		key, err := ParseKey("case_study_2_0")
		assert.NoError(t, err)
		assert.Equal(t, Key{Section: models.SectionCaseStudy, QuestionID: 2, Index: 0}, key)
	})

	t.Run("RoundTripsThroughString", func(t *testing.T) {
		for _, original := range []Key{
			{Section: models.SectionMCQ, QuestionID: 1, Index: 4},
			{Section: models.SectionSAQ, QuestionID: 12, Index: 2},
			{Section: models.SectionCaseStudy, QuestionID: 7, Index: 0},
			{Section: models.SectionAptitude, QuestionID: 3, Index: 1},
		} {
			parsed, err := ParseKey(original.String())
			assert.NoError(t, err)
			assert.Equal(t, original, parsed)
		}
	})

	t.Run("RejectsMalformedKeys", func(t *testing.T) {
		for _, raw := range []string{"", "mcq", "mcq_1", "mcq_one_0", "mcq_1_x"} {
			_, err := ParseKey(raw)
			assert.Error(t, err, "key %q", raw)
		}
	})

	t.Run("RejectsUnknownSection", func(t *testing.T) {
		_, err := ParseKey("essay_1_0")
		assert.Error(t, err)
	})
}

func TestAnswerIsEmpty(t *testing.T) {
	assert.False(t, ChoiceAnswer(0).IsEmpty())
	assert.False(t, ChoiceAnswer(2).IsEmpty())
	assert.True(t, ChoiceAnswer(-1).IsEmpty())

	assert.False(t, TextAnswer("42").IsEmpty())
	assert.True(t, TextAnswer("").IsEmpty())

	assert.False(t, PartsAnswer([]string{"", "second part"}).IsEmpty())
	assert.True(t, PartsAnswer([]string{"", ""}).IsEmpty())
	assert.True(t, PartsAnswer(nil).IsEmpty())

	assert.True(t, Answer{}.IsEmpty())
}
