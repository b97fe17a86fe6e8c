package session

import (
	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// Variant selects which of the two taking flows the machine runs.
type Variant string

const (
	// VariantSectioned walks the four fixed sections in order and scores
	// locally on submit.
	VariantSectioned Variant = "sectioned"
	// VariantFlat walks a flat, position-ordered question list with free
	// jumps; scoring is deferred to the server's finalize path.
	VariantFlat Variant = "flat"
)

// Phase is the lifecycle of a taking session.
type Phase string

const (
	PhaseActive    Phase = "active"
	PhaseSubmitted Phase = "submitted"
)

// AutosaveDelayTicks is the inactivity window, in one-second ticks, after
// which an edited answer is persisted.
const AutosaveDelayTicks = 3

// Config fixes the immutable parameters of a session.
type Config struct {
	Variant Variant

	// Questions backs the sectioned variant.
	Questions *models.QuestionSet

	// FlatCount backs the flat variant.
	FlatCount int

	// TimeLimitSeconds > 0 switches the timer to countdown mode.
	// AlreadySpentSeconds is subtracted once at start when resuming.
	TimeLimitSeconds    int
	AlreadySpentSeconds int
}

// State is the complete session state. All transitions go through Reduce,
// which returns a fresh value; callers never mutate a State in place.
type State struct {
	cfg Config

	Phase   Phase
	Section models.Section
	Index   int

	answers  map[Key]Answer
	statuses map[Key]QuestionStatus

	Elapsed   int
	Remaining int // countdown mode only; -1 when untimed

	// autosave bookkeeping
	dirtyKey       *Key
	ticksSinceEdit int

	autoSubmitFired bool
}

// New builds the initial state for a loaded session: phase active, cursor
// at the first non-empty section, every question unanswered, timer primed.
func New(cfg Config) State {
	s := State{
		cfg:       cfg,
		Phase:     PhaseActive,
		Section:   models.SectionMCQ,
		answers:   map[Key]Answer{},
		statuses:  map[Key]QuestionStatus{},
		Elapsed:   cfg.AlreadySpentSeconds,
		Remaining: -1,
	}
	if cfg.TimeLimitSeconds > 0 {
		s.Remaining = cfg.TimeLimitSeconds - cfg.AlreadySpentSeconds
		if s.Remaining < 0 {
			s.Remaining = 0
		}
	}
	if cfg.Variant == VariantSectioned && cfg.Questions != nil {
		if cfg.Questions.SectionSize(s.Section) == 0 {
			if next, ok := nextNonEmptySection(cfg.Questions, s.Section); ok {
				s.Section = next
			}
		}
	}
	return s
}

// Config returns the session's immutable configuration.
func (s State) Config() Config { return s.cfg }

// Answer returns the stored answer for a key, if any.
func (s State) Answer(key Key) (Answer, bool) {
	a, ok := s.answers[key]
	return a, ok
}

// Status returns the tracked status for a key, defaulting to unanswered.
func (s State) Status(key Key) QuestionStatus {
	if st, ok := s.statuses[key]; ok {
		return st
	}
	return StatusUnanswered
}

// AnsweredCount returns how many questions currently hold an answer.
func (s State) AnsweredCount() int {
	count := 0
	for _, st := range s.statuses {
		if st == StatusAnswered {
			count++
		}
	}
	return count
}

// Answers returns a copy of the answer map, keyed for scoring.
func (s State) Answers() map[Key]Answer {
	out := make(map[Key]Answer, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s State) cloneAnswers() map[Key]Answer {
	return s.Answers()
}

func (s State) cloneStatuses() map[Key]QuestionStatus {
	out := make(map[Key]QuestionStatus, len(s.statuses))
	for k, v := range s.statuses {
		out[k] = v
	}
	return out
}

// ===== EVENTS =====

// Event is one input to the state machine.
type Event interface{ isEvent() }

// Tick advances the timers by one second.
type Tick struct{}

// SetAnswer upserts the answer for a key. Later writes overwrite earlier
// ones for the same key.
type SetAnswer struct {
	Key    Key
	Answer Answer
}

// ToggleFlag flips a question between flagged and unanswered, independent
// of answer presence.
type ToggleFlag struct{ Key Key }

// Next advances the cursor; Prev moves it back within the current section.
type Next struct{}
type Prev struct{}

// Jump sets the cursor directly (flat variant only).
type Jump struct{ Index int }

// Save requests an explicit persist of the current dirty answer.
type Save struct{}

// Submit finalizes the session.
type Submit struct{}

func (Tick) isEvent()       {}
func (SetAnswer) isEvent()  {}
func (ToggleFlag) isEvent() {}
func (Next) isEvent()       {}
func (Prev) isEvent()       {}
func (Jump) isEvent()       {}
func (Save) isEvent()       {}
func (Submit) isEvent()     {}

// ===== EFFECTS =====

// Effect is a side effect the caller must perform. Effects carry their own
// data snapshot so a save that is superseded before it runs stays correct.
type Effect interface{ isEffect() }

// SaveAnswer asks the caller to persist one answer.
type SaveAnswer struct {
	Key    Key
	Answer Answer
}

// Finalize asks the caller to close out the session. Reason distinguishes
// a user submit from a timer expiry.
type Finalize struct {
	Reason models.EndReason
}

func (SaveAnswer) isEffect() {}
func (Finalize) isEffect()   {}

// Reduce applies one event and returns the next state plus any effects.
// Once the phase is submitted every event is a no-op: the contract says no
// answer writes are accepted after submission.
func Reduce(s State, ev Event) (State, []Effect) {
	if s.Phase == PhaseSubmitted {
		return s, nil
	}

	switch e := ev.(type) {
	case Tick:
		return reduceTick(s)

	case SetAnswer:
		next := s
		next.answers = s.cloneAnswers()
		next.statuses = s.cloneStatuses()
		next.answers[e.Key] = e.Answer
		if !e.Answer.IsEmpty() {
			next.statuses[e.Key] = StatusAnswered
		}
		key := e.Key
		next.dirtyKey = &key
		next.ticksSinceEdit = 0
		return next, nil

	case ToggleFlag:
		next := s
		next.statuses = s.cloneStatuses()
		if next.statuses[e.Key] == StatusFlagged {
			next.statuses[e.Key] = StatusUnanswered
		} else {
			next.statuses[e.Key] = StatusFlagged
		}
		return next, nil

	case Next:
		next, effects := flushDirty(s)
		return reduceNext(next), effects

	case Prev:
		next, effects := flushDirty(s)
		return reducePrev(next), effects

	case Jump:
		if s.cfg.Variant != VariantFlat || e.Index < 0 || e.Index >= s.cfg.FlatCount {
			return s, nil
		}
		next, effects := flushDirty(s)
		next.Index = e.Index
		return next, effects

	case Save:
		return flushDirty(s)

	case Submit:
		next, effects := flushDirty(s)
		next.Phase = PhaseSubmitted
		next.dirtyKey = nil
		return next, append(effects, Finalize{Reason: models.EndReasonUser})
	}

	return s, nil
}

// flushDirty emits a save effect for the pending edited answer, if any.
// Explicit saves, navigation saves and the autosave window all funnel
// through here so the same answer is never persisted twice in a row.
func flushDirty(s State) (State, []Effect) {
	if s.dirtyKey == nil {
		return s, nil
	}
	answer, ok := s.answers[*s.dirtyKey]
	if !ok || answer.IsEmpty() {
		next := s
		next.dirtyKey = nil
		return next, nil
	}
	effect := SaveAnswer{Key: *s.dirtyKey, Answer: answer}
	next := s
	next.dirtyKey = nil
	next.ticksSinceEdit = 0
	return next, []Effect{effect}
}
