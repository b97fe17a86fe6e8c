package session

import (
	"testing"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func testQuestionSet() *models.QuestionSet {
	return &models.QuestionSet{
		MCQs: []models.MCQuestion{
			{ID: 1, Question: "Q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Skill: "Go"},
			{ID: 2, Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Skill: "Go"},
		},
		SAQs: []models.SAQuestion{
			{ID: 1, Question: "S1"},
		},
		CaseStudy: &models.CaseStudy{
			ID: 1, Scenario: "scenario", Questions: []string{"part one", "part two"},
		},
		AptitudeQuestions: []models.AptitudeQuestion{
			{ID: 1, Question: "A1", CorrectAnswer: "42"},
		},
	}
}

func sectionedConfig(qs *models.QuestionSet) Config {
	return Config{Variant: VariantSectioned, Questions: qs}
}

func TestNew(t *testing.T) {
	t.Run("StartsAtFirstSection", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		assert.Equal(t, PhaseActive, s.Phase)
		assert.Equal(t, models.SectionMCQ, s.Section)
		assert.Equal(t, 0, s.Index)
		assert.Equal(t, -1, s.Remaining)
	})

	t.Run("SkipsEmptyLeadingSection", func(t *testing.T) {
		qs := testQuestionSet()
		qs.MCQs = nil
		s := New(sectionedConfig(qs))
		assert.Equal(t, models.SectionSAQ, s.Section)
	})

	t.Run("PrimesCountdownOnResume", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 5, TimeLimitSeconds: 600, AlreadySpentSeconds: 100})
		assert.Equal(t, 100, s.Elapsed)
		assert.Equal(t, 500, s.Remaining)
	})

	t.Run("ClampsOverspentResume", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 5, TimeLimitSeconds: 600, AlreadySpentSeconds: 700})
		assert.Equal(t, 0, s.Remaining)
	})
}

func TestReduceSetAnswer(t *testing.T) {
	s := New(sectionedConfig(testQuestionSet()))
	key := Key{Section: models.SectionMCQ, QuestionID: 1, Index: 0}

	s, effects := Reduce(s, SetAnswer{Key: key, Answer: ChoiceAnswer(1)})
	assert.Empty(t, effects)
	assert.Equal(t, StatusAnswered, s.Status(key))
	answer, ok := s.Answer(key)
	assert.True(t, ok)
	assert.Equal(t, 1, answer.Choice)
	assert.Equal(t, 1, s.AnsweredCount())

	// later writes overwrite earlier ones for the same key
	s, _ = Reduce(s, SetAnswer{Key: key, Answer: ChoiceAnswer(0)})
	answer, _ = s.Answer(key)
	assert.Equal(t, 0, answer.Choice)
	assert.Equal(t, 1, s.AnsweredCount())
}

func TestReduceToggleFlag(t *testing.T) {
	s := New(sectionedConfig(testQuestionSet()))
	key := Key{Section: models.SectionMCQ, QuestionID: 1, Index: 0}

	assert.Equal(t, StatusUnanswered, s.Status(key))
	s, _ = Reduce(s, ToggleFlag{Key: key})
	assert.Equal(t, StatusFlagged, s.Status(key))
	s, _ = Reduce(s, ToggleFlag{Key: key})
	assert.Equal(t, StatusUnanswered, s.Status(key))
}

func TestReduceSave(t *testing.T) {
	key := Key{Section: models.SectionSAQ, QuestionID: 1, Index: 0}

	t.Run("FlushesDirtyAnswerOnce", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft")})

		s, effects := Reduce(s, Save{})
		assert.Equal(t, []Effect{SaveAnswer{Key: key, Answer: TextAnswer("draft")}}, effects)

		// nothing pending, a second save is silent
		_, effects = Reduce(s, Save{})
		assert.Empty(t, effects)
	})

	t.Run("SkipsEmptyAnswer", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("")})
		_, effects := Reduce(s, Save{})
		assert.Empty(t, effects)
	})

	t.Run("NavigationFlushesDirtyAnswer", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, SetAnswer{Key: key, Answer: TextAnswer("draft")})

		s, effects := Reduce(s, Next{})
		assert.Len(t, effects, 1)
		assert.Equal(t, SaveAnswer{Key: key, Answer: TextAnswer("draft")}, effects[0])

		// already flushed, the next navigation saves nothing
		_, effects = Reduce(s, Prev{})
		assert.Empty(t, effects)
	})
}

func TestReduceJump(t *testing.T) {
	s := New(Config{Variant: VariantFlat, FlatCount: 4})

	s, _ = Reduce(s, Jump{Index: 3})
	assert.Equal(t, 3, s.Index)

	s, _ = Reduce(s, Jump{Index: 4})
	assert.Equal(t, 3, s.Index)
	s, _ = Reduce(s, Jump{Index: -1})
	assert.Equal(t, 3, s.Index)

	// jumps are a flat-variant action only
	sectioned := New(sectionedConfig(testQuestionSet()))
	sectioned, _ = Reduce(sectioned, Jump{Index: 1})
	assert.Equal(t, 0, sectioned.Index)
}

func TestReduceSubmit(t *testing.T) {
	s := New(sectionedConfig(testQuestionSet()))
	key := Key{Section: models.SectionMCQ, QuestionID: 1, Index: 0}
	s, _ = Reduce(s, SetAnswer{Key: key, Answer: ChoiceAnswer(0)})

	s, effects := Reduce(s, Submit{})
	assert.Equal(t, PhaseSubmitted, s.Phase)
	assert.Equal(t, []Effect{
		SaveAnswer{Key: key, Answer: ChoiceAnswer(0)},
		Finalize{Reason: models.EndReasonUser},
	}, effects)

	// every event after submission is a no-op
	for _, ev := range []Event{Tick{}, SetAnswer{Key: key, Answer: ChoiceAnswer(1)}, Next{}, Submit{}} {
		next, effects := Reduce(s, ev)
		assert.Empty(t, effects)
		assert.Equal(t, s.Phase, next.Phase)
		assert.Equal(t, s.Elapsed, next.Elapsed)
	}
	answer, _ := s.Answer(key)
	assert.Equal(t, 0, answer.Choice)
}
