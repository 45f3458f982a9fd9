// Package session implements the typing session state machine: per-character
// judgment, timing and per-word performance sampling.
package session

import (
	"fmt"
	"time"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// WordSeparator ends a word.
const WordSeparator = ' '

// Session owns the state of a single typing run.
type Session struct {
	state   model.SessionState
	clock   Clock
	sampler Sampler
}

// New creates an idle session over text.
func New(id string, difficulty model.Difficulty, text []rune) (*Session, error) {
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: target text is empty", generator.ErrConfiguration)
	}
	slots := make([]model.CharacterSlot, len(text))
	for i, r := range text {
		slots[i] = model.CharacterSlot{Char: r, Judgment: model.Pending}
	}
	return &Session{
		state: model.SessionState{
			ID:         id,
			Difficulty: difficulty,
			Slots:      slots,
			Phase:      model.Idle,
		},
	}, nil
}

// ID returns the session identity token.
func (s *Session) ID() string {
	return s.state.ID
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() model.Phase {
	return s.state.Phase
}

// State returns a deep copy of the session state.
func (s *Session) State() model.SessionState {
	return s.state.Clone()
}

// Samples returns a copy of the recorded performance samples.
func (s *Session) Samples() []model.PerformanceSample {
	return s.sampler.Samples()
}

// Elapsed returns the elapsed seconds at now.
func (s *Session) Elapsed(now time.Time) float64 {
	return s.clock.Elapsed(now)
}

// Metrics computes metrics at now.
func (s *Session) Metrics(now time.Time) model.Metrics {
	return stats.Compute(s.state, s.Elapsed(now))
}

// OnCharacterKey judges key against the character under the cursor. It
// reports whether the state changed.
func (s *Session) OnCharacterKey(key rune, now time.Time) bool {
	if s.state.Phase == model.Completed {
		return false
	}
	if s.state.Cursor >= len(s.state.Slots) {
		return false
	}
	if s.state.Phase == model.Idle {
		s.clock.Start(now)
		s.state.StartTime = now
		s.state.Phase = model.Running
	}

	s.state.TotalKeystrokes++
	judgment := model.Incorrect
	if key == s.state.Slots[s.state.Cursor].Char {
		judgment = model.Correct
	}
	s.setJudgment(s.state.Cursor, judgment)
	s.state.Cursor++

	done := s.state.Cursor == len(s.state.Slots)
	if key == WordSeparator || done {
		m := s.Metrics(now)
		s.sampler.OnWordBoundary(m.WPM, m.RawWPM, s.state.TotalErrors)
	}
	if done {
		s.complete(now)
	}
	s.assert()
	return true
}

// OnBackspace steps the cursor back and clears that slot's judgment. It only
// applies while running, so a completed session stays completed.
func (s *Session) OnBackspace(_ time.Time) bool {
	if s.state.Phase != model.Running || s.state.Cursor == 0 {
		return false
	}
	s.state.Cursor--
	s.setJudgment(s.state.Cursor, model.Pending)
	s.assert()
	return true
}

func (s *Session) complete(now time.Time) {
	if s.state.Phase == model.Completed {
		return
	}
	s.clock.Stop(now)
	s.state.EndTime = now
	s.state.Phase = model.Completed
}

// setJudgment is the only writer of slot judgments and keeps TotalErrors
// equal to the number of Incorrect slots.
func (s *Session) setJudgment(i int, j model.Judgment) {
	prev := s.state.Slots[i].Judgment
	if prev == model.Incorrect {
		s.state.TotalErrors--
	}
	if j == model.Incorrect {
		s.state.TotalErrors++
	}
	if s.state.TotalErrors < 0 {
		s.state.TotalErrors = 0
	}
	s.state.Slots[i].Judgment = j
}

// CheckInvariants verifies the state and returns the first violation found.
func (s *Session) CheckInvariants() error {
	st := &s.state
	if st.Cursor < 0 || st.Cursor > len(st.Slots) {
		return fmt.Errorf("cursor %d outside [0, %d]", st.Cursor, len(st.Slots))
	}
	if st.TotalErrors < 0 {
		return fmt.Errorf("negative error count %d", st.TotalErrors)
	}
	incorrect := 0
	for i, slot := range st.Slots {
		pending := slot.Judgment == model.Pending
		if i < st.Cursor && pending {
			return fmt.Errorf("slot %d before cursor %d is pending", i, st.Cursor)
		}
		if i >= st.Cursor && !pending {
			return fmt.Errorf("slot %d at or after cursor %d is %s", i, st.Cursor, slot.Judgment)
		}
		if slot.Judgment == model.Incorrect {
			incorrect++
		}
	}
	if incorrect != st.TotalErrors {
		return fmt.Errorf("error count %d does not match %d incorrect slots", st.TotalErrors, incorrect)
	}
	if (st.Phase == model.Completed) != (st.Cursor == len(st.Slots)) {
		return fmt.Errorf("phase %s with cursor %d of %d", st.Phase, st.Cursor, len(st.Slots))
	}
	if st.Phase != model.Idle && st.StartTime.IsZero() {
		return fmt.Errorf("phase %s without start time", st.Phase)
	}
	started, stopped := s.clock.Started(), s.clock.Stopped()
	switch {
	case st.Phase == model.Idle && started:
		return fmt.Errorf("idle session with a running clock")
	case st.Phase == model.Running && (!started || stopped):
		return fmt.Errorf("running session with clock started=%t stopped=%t", started, stopped)
	case st.Phase == model.Completed && !stopped:
		return fmt.Errorf("completed session with clock still running")
	}
	return nil
}

func (s *Session) assert() {
	if !checkInvariants {
		return
	}
	if err := s.CheckInvariants(); err != nil {
		panic(fmt.Sprintf("session %s: invariant violated: %v", s.state.ID, err))
	}
}
