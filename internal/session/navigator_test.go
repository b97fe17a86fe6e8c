package session

import (
	"testing"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReduceNextSectioned(t *testing.T) {
	t.Run("AdvancesWithinSection", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, Next{})
		assert.Equal(t, models.SectionMCQ, s.Section)
		assert.Equal(t, 1, s.Index)
	})

	t.Run("CrossesIntoNextSection", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, Next{})
		s, _ = Reduce(s, Next{})
		assert.Equal(t, models.SectionSAQ, s.Section)
		assert.Equal(t, 0, s.Index)
	})

	t.Run("SkipsEmptySections", func(t *testing.T) {
		qs := testQuestionSet()
		qs.SAQs = nil
		qs.CaseStudy = nil
		s := New(sectionedConfig(qs))
		s, _ = Reduce(s, Next{})
		s, _ = Reduce(s, Next{})
		assert.Equal(t, models.SectionAptitude, s.Section)
		assert.Equal(t, 0, s.Index)
	})

	t.Run("NoOpOnLastQuestion", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		for i := 0; i < 10; i++ {
			s, _ = Reduce(s, Next{})
		}
		assert.Equal(t, models.SectionAptitude, s.Section)
		assert.Equal(t, 0, s.Index)
		assert.True(t, s.IsLast())
	})
}

func TestReducePrev(t *testing.T) {
	t.Run("MovesBackWithinSection", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, Next{})
		s, _ = Reduce(s, Prev{})
		assert.Equal(t, models.SectionMCQ, s.Section)
		assert.Equal(t, 0, s.Index)
	})

	t.Run("DoesNotCrossSectionBoundary", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, Next{})
		s, _ = Reduce(s, Next{}) // into SAQ section
		s, _ = Reduce(s, Prev{})
		assert.Equal(t, models.SectionSAQ, s.Section)
		assert.Equal(t, 0, s.Index)
	})

	t.Run("NoOpAtStart", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 3})
		s, _ = Reduce(s, Prev{})
		assert.Equal(t, 0, s.Index)
	})
}

func TestReduceNextFlat(t *testing.T) {
	s := New(Config{Variant: VariantFlat, FlatCount: 3})
	s, _ = Reduce(s, Next{})
	s, _ = Reduce(s, Next{})
	assert.Equal(t, 2, s.Index)
	assert.True(t, s.IsLast())

	s, _ = Reduce(s, Next{})
	assert.Equal(t, 2, s.Index)
}

func TestIsLast(t *testing.T) {
	t.Run("FalseWhenLaterSectionHasQuestions", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		s, _ = Reduce(s, Next{})
		assert.False(t, s.IsLast())
	})

	t.Run("TrueAtEndOfLastNonEmptySection", func(t *testing.T) {
		qs := testQuestionSet()
		qs.AptitudeQuestions = nil
		s := New(sectionedConfig(qs))
		for i := 0; i < 10; i++ {
			s, _ = Reduce(s, Next{})
		}
		assert.Equal(t, models.SectionCaseStudy, s.Section)
		assert.True(t, s.IsLast())
	})
}

func TestProgress(t *testing.T) {
	t.Run("SectionedUsesCurrentSection", func(t *testing.T) {
		s := New(sectionedConfig(testQuestionSet()))
		assert.InDelta(t, 50.0, s.Progress(), 0.001)
		s, _ = Reduce(s, Next{})
		assert.InDelta(t, 100.0, s.Progress(), 0.001)
	})

	t.Run("FlatUsesWholeList", func(t *testing.T) {
		s := New(Config{Variant: VariantFlat, FlatCount: 4})
		assert.InDelta(t, 25.0, s.Progress(), 0.001)
		s, _ = Reduce(s, Jump{Index: 3})
		assert.InDelta(t, 100.0, s.Progress(), 0.001)
	})
}
