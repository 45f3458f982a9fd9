// Package stats contains metric calculations and result rendering.
package stats

import (
	"math"

	"github.com/verte-zerg/typetest/internal/model"
)

// charsPerWord is the standard word length used by WPM.
const charsPerWord = 5.0

// Compute derives metrics from a session state and an elapsed time.
//
// WPM counts correct characters only; RawWPM counts every judged character.
// Accuracy uses the cursor as denominator while the session is live and the
// full text length once it is completed.
func Compute(state model.SessionState, elapsedSeconds float64) model.Metrics {
	if elapsedSeconds < 0 || math.IsNaN(elapsedSeconds) {
		elapsedSeconds = 0
	}
	cursor := state.Cursor
	if cursor > len(state.Slots) {
		cursor = len(state.Slots)
	}
	correct := CorrectCount(state.Slots, cursor)

	reference := cursor
	if state.Phase == model.Completed {
		reference = len(state.Slots)
	}

	return model.Metrics{
		ElapsedSeconds: elapsedSeconds,
		WPM:            WordsPerMinute(correct, elapsedSeconds),
		RawWPM:         WordsPerMinute(cursor, elapsedSeconds),
		Accuracy:       Accuracy(correct, reference),
		Errors:         state.TotalErrors,
		Keystrokes:     state.TotalKeystrokes,
		Cursor:         state.Cursor,
		Length:         len(state.Slots),
	}
}

// CorrectCount counts Correct slots among the first n.
func CorrectCount(slots []model.CharacterSlot, n int) int {
	if n > len(slots) {
		n = len(slots)
	}
	count := 0
	for _, slot := range slots[:n] {
		if slot.Judgment == model.Correct {
			count++
		}
	}
	return count
}

// WordsPerMinute returns round((chars/5)/(seconds/60)), or 0 when no time
// has elapsed.
func WordsPerMinute(chars int, elapsedSeconds float64) int {
	if chars <= 0 || elapsedSeconds <= 0 {
		return 0
	}
	minutes := elapsedSeconds / 60.0
	wpm := math.Round((float64(chars) / charsPerWord) / minutes)
	if math.IsNaN(wpm) || math.IsInf(wpm, 0) || wpm < 0 {
		return 0
	}
	return int(wpm)
}

// Accuracy returns the correct share of reference as a percentage in
// [0, 100]. An empty reference counts as perfect.
func Accuracy(correct, reference int) float64 {
	if reference <= 0 {
		return 100
	}
	acc := 100 * float64(correct) / float64(reference)
	if acc < 0 {
		return 0
	}
	if acc > 100 {
		return 100
	}
	return acc
}
