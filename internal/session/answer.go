package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// AnswerKind discriminates the shape of an answer value. Each question
// variant stores exactly one shape: MCQs a selected option index, SAQs and
// aptitude questions free text, case studies an ordered list of sub-answers.
type AnswerKind string

const (
	AnswerChoice AnswerKind = "choice"
	AnswerText   AnswerKind = "text"
	AnswerParts  AnswerKind = "parts"
)

// Answer is the tagged union stored per question. Storage and scoring match
// on Kind instead of sniffing an untyped value.
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Choice int        `json:"choice,omitempty"`
	Text   string     `json:"text,omitempty"`
	Parts  []string   `json:"parts,omitempty"`
}

// ChoiceAnswer builds an answer holding a selected option index.
func ChoiceAnswer(index int) Answer {
	return Answer{Kind: AnswerChoice, Choice: index}
}

// TextAnswer builds a free-text answer.
func TextAnswer(text string) Answer {
	return Answer{Kind: AnswerText, Text: text}
}

// PartsAnswer builds an ordered list of sub-answers for a case study.
func PartsAnswer(parts []string) Answer {
	return Answer{Kind: AnswerParts, Parts: parts}
}

// IsEmpty reports whether the answer carries no usable content. Empty
// answers are not autosaved and count as unanswered for scoring.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerChoice:
		return a.Choice < 0
	case AnswerText:
		return a.Text == ""
	case AnswerParts:
		for _, part := range a.Parts {
			if part != "" {
				return false
			}
		}
		return true
	}
	return true
}

// Key identifies one answer slot. The positional index disambiguates
// repeated question identifiers across sections.
type Key struct {
	Section    models.Section `json:"section"`
	QuestionID int            `json:"question_id"`
	Index      int            `json:"index"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%d_%d", k.Section, k.QuestionID, k.Index)
}

// ParseKey parses the "<section>_<question_id>_<index>" wire form. Section
// names may themselves contain underscores, so the numeric parts are taken
// from the right.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "_")
	if len(parts) < 3 {
		return Key{}, fmt.Errorf("malformed answer key %q", s)
	}

	index, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Key{}, fmt.Errorf("malformed answer key %q: %w", s, err)
	}
	questionID, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return Key{}, fmt.Errorf("malformed answer key %q: %w", s, err)
	}

	section := models.Section(strings.Join(parts[:len(parts)-2], "_"))
	switch section {
	case models.SectionMCQ, models.SectionSAQ, models.SectionCaseStudy, models.SectionAptitude:
	default:
		return Key{}, fmt.Errorf("unknown section in answer key %q", s)
	}

	return Key{Section: section, QuestionID: questionID, Index: index}, nil
}

// QuestionStatus tracks per-question UI state.
type QuestionStatus string

const (
	StatusUnanswered QuestionStatus = "unanswered"
	StatusAnswered   QuestionStatus = "answered"
	StatusFlagged    QuestionStatus = "flagged"
)
