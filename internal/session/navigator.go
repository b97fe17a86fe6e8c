package session

import "github.com/SAP-F-2025/role-assessment-service/internal/models"

// reduceNext advances the cursor. In the sectioned variant, stepping past
// the last question of a section moves to the first later section with at
// least one question, skipping empty ones; at the very end it is a no-op
// (the caller checks IsLast before offering a next action).
func reduceNext(s State) State {
	switch s.cfg.Variant {
	case VariantFlat:
		if s.Index < s.cfg.FlatCount-1 {
			s.Index++
		}
		return s

	case VariantSectioned:
		qs := s.cfg.Questions
		if qs == nil {
			return s
		}
		if s.Index < qs.SectionSize(s.Section)-1 {
			s.Index++
			return s
		}
		if next, ok := nextNonEmptySection(qs, s.Section); ok {
			s.Section = next
			s.Index = 0
		}
		return s
	}
	return s
}

// reducePrev moves the cursor back. The sectioned variant deliberately does
// not cross section boundaries backward, mirroring forward-only section
// flow; the flat variant has no sections to cross.
func reducePrev(s State) State {
	if s.Index > 0 {
		s.Index--
	}
	return s
}

// IsLast reports whether the cursor sits on the final question: no later
// non-empty section exists and the index is the section's last.
func (s State) IsLast() bool {
	switch s.cfg.Variant {
	case VariantFlat:
		return s.Index == s.cfg.FlatCount-1

	case VariantSectioned:
		qs := s.cfg.Questions
		if qs == nil {
			return true
		}
		if _, ok := nextNonEmptySection(qs, s.Section); ok {
			return false
		}
		return s.Index == qs.SectionSize(s.Section)-1
	}
	return true
}

// Progress returns completion as a fraction of the current section
// (sectioned variant) or of the whole list (flat variant), in [0, 100].
func (s State) Progress() float64 {
	var total int
	switch s.cfg.Variant {
	case VariantFlat:
		total = s.cfg.FlatCount
	case VariantSectioned:
		if s.cfg.Questions != nil {
			total = s.cfg.Questions.SectionSize(s.Section)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(s.Index+1) / float64(total) * 100
}

func nextNonEmptySection(qs *models.QuestionSet, current models.Section) (models.Section, bool) {
	seen := false
	for _, section := range models.SectionOrder {
		if section == current {
			seen = true
			continue
		}
		if seen && qs.SectionSize(section) > 0 {
			return section, true
		}
	}
	return "", false
}
