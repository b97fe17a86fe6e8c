package session

import (
	"fmt"

	"github.com/SAP-F-2025/role-assessment-service/internal/models"
)

// reduceTick advances the clocks by one second. Elapsed time is monotonic
// while the session is active. In countdown mode the remaining time clamps
// at zero and the finalize effect fires exactly once; the autosave window
// is also driven off the same tick source.
func reduceTick(s State) (State, []Effect) {
	next := s
	next.Elapsed++

	var effects []Effect

	if next.Remaining >= 0 {
		if next.Remaining > 0 {
			next.Remaining--
		}
		if next.Remaining == 0 && !next.autoSubmitFired {
			next.autoSubmitFired = true
			// Flush the in-flight answer before the forced submit so the
			// last edit is not lost to the deadline.
			flushed, saveEffects := flushDirty(next)
			next = flushed
			next.Phase = PhaseSubmitted
			effects = append(saveEffects, Finalize{Reason: models.EndReasonTimeout})
			return next, effects
		}
	}

	if next.dirtyKey != nil {
		next.ticksSinceEdit++
		if next.ticksSinceEdit >= AutosaveDelayTicks {
			flushed, saveEffects := flushDirty(next)
			next = flushed
			effects = append(effects, saveEffects...)
		}
	}

	return next, effects
}

// FormatTime renders a second count as M:SS, or H:MM:SS once the count
// reaches an hour.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
