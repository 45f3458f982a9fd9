package session

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
)

var t0 = time.Unix(1_700_000_000, 0)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func newSession(t *testing.T, text string) *Session {
	t.Helper()
	s, err := New("test", model.Short, []rune(text))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func typeKeys(t *testing.T, s *Session, keys string, start float64) {
	t.Helper()
	for i, r := range []rune(keys) {
		s.OnCharacterKey(r, at(start+float64(i)))
		if err := s.CheckInvariants(); err != nil {
			t.Fatalf("invariant after %q: %v", r, err)
		}
	}
}

func TestNewRejectsEmptyText(t *testing.T) {
	if _, err := New("x", model.Short, nil); !errors.Is(err, generator.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAllCorrectCompletes(t *testing.T) {
	s := newSession(t, "cat")
	typeKeys(t, s, "cat", 0)

	st := s.State()
	if st.Cursor != 3 || st.Phase != model.Completed || st.TotalErrors != 0 {
		t.Fatalf("unexpected state: cursor=%d phase=%s errors=%d", st.Cursor, st.Phase, st.TotalErrors)
	}
	if !st.StartTime.Equal(at(0)) || !st.EndTime.Equal(at(2)) {
		t.Fatalf("unexpected times: start=%v end=%v", st.StartTime, st.EndTime)
	}
	m := s.Metrics(at(10))
	if m.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %.2f", m.Accuracy)
	}
	if m.WPM != 18 {
		t.Fatalf("expected 18 wpm, got %d", m.WPM)
	}
	if m.ElapsedSeconds != 2 {
		t.Fatalf("expected frozen elapsed 2s, got %v", m.ElapsedSeconds)
	}
}

func TestOneError(t *testing.T) {
	s := newSession(t, "cat")
	s.OnCharacterKey('c', at(0))
	s.OnCharacterKey('x', at(1))
	if got := s.State().TotalErrors; got != 1 {
		t.Fatalf("expected 1 error after second key, got %d", got)
	}
	s.OnCharacterKey('t', at(2))
	m := s.Metrics(at(2))
	if math.Abs(m.Accuracy-200.0/3.0) > 1e-9 {
		t.Fatalf("expected ~66.7%% accuracy, got %.4f", m.Accuracy)
	}
	if s.State().Slots[1].Judgment != model.Incorrect {
		t.Fatalf("expected second slot incorrect")
	}
}

func TestBackspaceUndoesError(t *testing.T) {
	s := newSession(t, "cat")
	s.OnCharacterKey('c', at(0))
	s.OnCharacterKey('x', at(0.5))
	if !s.OnBackspace(at(0.7)) {
		t.Fatalf("expected backspace to apply")
	}
	s.OnCharacterKey('a', at(1))
	s.OnCharacterKey('t', at(2))

	ref := newSession(t, "cat")
	typeKeys(t, ref, "cat", 0)

	got, want := s.State(), ref.State()
	if got.Cursor != want.Cursor || got.TotalErrors != want.TotalErrors || got.Phase != want.Phase {
		t.Fatalf("state mismatch: got cursor=%d errors=%d phase=%s", got.Cursor, got.TotalErrors, got.Phase)
	}
	for i := range got.Slots {
		if got.Slots[i] != want.Slots[i] {
			t.Fatalf("slot %d mismatch: %+v vs %+v", i, got.Slots[i], want.Slots[i])
		}
	}
	if s.Metrics(at(2)).WPM != 18 {
		t.Fatalf("expected 18 wpm after corrections")
	}
	if got.TotalKeystrokes != 4 {
		t.Fatalf("expected 4 keystrokes, got %d", got.TotalKeystrokes)
	}
}

func TestUndoLaw(t *testing.T) {
	for _, key := range []rune{'a', 'z', ' '} {
		s := newSession(t, "abc")
		s.OnCharacterKey('a', at(0))
		before := s.State()
		s.OnCharacterKey(key, at(1))
		s.OnBackspace(at(2))
		after := s.State()
		if after.Cursor != before.Cursor || after.TotalErrors != before.TotalErrors {
			t.Fatalf("key %q: cursor/errors not restored: %+v vs %+v", key, after, before)
		}
		if after.Slots[1] != before.Slots[1] {
			t.Fatalf("key %q: slot not restored: %+v", key, after.Slots[1])
		}
	}
}

func TestKeysIgnoredAfterCompletion(t *testing.T) {
	s := newSession(t, "ab")
	typeKeys(t, s, "ab", 0)
	before := s.State()
	samples := len(s.Samples())
	if s.OnCharacterKey('x', at(5)) {
		t.Fatalf("expected key to be ignored after completion")
	}
	if s.OnBackspace(at(5)) {
		t.Fatalf("expected backspace to be ignored after completion")
	}
	after := s.State()
	if after.Cursor != before.Cursor || after.TotalKeystrokes != before.TotalKeystrokes || !after.EndTime.Equal(before.EndTime) {
		t.Fatalf("state changed after completion")
	}
	if len(s.Samples()) != samples {
		t.Fatalf("samples changed after completion")
	}
}

func TestBackspaceAtStartIgnored(t *testing.T) {
	s := newSession(t, "ab")
	if s.OnBackspace(at(0)) {
		t.Fatalf("backspace while idle must be ignored")
	}
	s.OnCharacterKey('a', at(0))
	s.OnBackspace(at(1))
	if s.OnBackspace(at(2)) {
		t.Fatalf("backspace at cursor 0 must be ignored")
	}
	if s.Phase() != model.Running {
		t.Fatalf("backspace must not change phase, got %s", s.Phase())
	}
	if !s.State().StartTime.Equal(at(0)) {
		t.Fatalf("start time must be kept")
	}
}

func TestStartTimeSetOnce(t *testing.T) {
	s := newSession(t, "abc")
	s.OnCharacterKey('a', at(3))
	s.OnBackspace(at(4))
	s.OnCharacterKey('a', at(5))
	if !s.State().StartTime.Equal(at(3)) {
		t.Fatalf("start time moved: %v", s.State().StartTime)
	}
}

func TestSamplesAtWordBoundaries(t *testing.T) {
	s := newSession(t, "ab cd")
	s.OnCharacterKey('a', at(0))
	s.OnCharacterKey('x', at(1))
	s.OnCharacterKey(' ', at(2))
	s.OnCharacterKey('c', at(3))
	s.OnCharacterKey('y', at(4))

	samples := s.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].WordIndex != 1 || samples[1].WordIndex != 2 {
		t.Fatalf("unexpected word indexes: %+v", samples)
	}
	if samples[0].Errors != 1 || samples[1].Errors != 1 {
		t.Fatalf("expected one error per word, got %+v", samples)
	}
}

func TestSampleErrorsFloorAfterCorrection(t *testing.T) {
	s := newSession(t, "ab cd ef")
	typeKeys(t, s, "xb ", 0)
	s.OnBackspace(at(3))
	s.OnBackspace(at(3))
	s.OnBackspace(at(3))
	typeKeys(t, s, "ab ", 4)
	samples := s.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Errors != 0 {
		t.Fatalf("expected errors floored at 0, got %d", samples[1].Errors)
	}
	typeKeys(t, s, "xd ", 7)
	samples = s.Samples()
	if samples[len(samples)-1].Errors != 1 {
		t.Fatalf("expected 1 error in last word, got %+v", samples)
	}
}

func TestTrailingSeparatorCompletesOnce(t *testing.T) {
	s := newSession(t, "ab ")
	typeKeys(t, s, "ab ", 0)
	if s.Phase() != model.Completed {
		t.Fatalf("expected completed, got %s", s.Phase())
	}
	if n := len(s.Samples()); n != 1 {
		t.Fatalf("expected a single boundary for the final separator, got %d", n)
	}
}

func TestZeroElapsedTick(t *testing.T) {
	s := newSession(t, "abc")
	s.OnCharacterKey('a', at(0))
	m := s.Metrics(at(0))
	if m.WPM != 0 || m.ElapsedSeconds != 0 {
		t.Fatalf("expected zero wpm at start time, got %+v", m)
	}
}

func TestRandomTypingKeepsInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	alphabet := []rune("abc ")
	for round := 0; round < 200; round++ {
		text := make([]rune, 1+rnd.Intn(12))
		for i := range text {
			text[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		s, err := New("r", model.Short, text)
		if err != nil {
			t.Fatalf("new session: %v", err)
		}
		completed := false
		for step := 0; step < 40; step++ {
			now := at(float64(step))
			if rnd.Intn(4) == 0 {
				s.OnBackspace(now)
			} else {
				s.OnCharacterKey(alphabet[rnd.Intn(len(alphabet))], now)
			}
			if err := s.CheckInvariants(); err != nil {
				t.Fatalf("round %d step %d: %v", round, step, err)
			}
			if completed && s.Phase() != model.Completed {
				t.Fatalf("round %d: session left completed phase", round)
			}
			completed = s.Phase() == model.Completed
		}
	}
}

func TestElapsedHoldsAcrossFinalKey(t *testing.T) {
	s := newSession(t, "cat")
	s.OnCharacterKey('c', at(0))
	s.OnCharacterKey('a', at(1))
	before := s.Metrics(at(1.9)).ElapsedSeconds
	s.OnCharacterKey('t', at(2))

	final := s.Metrics(at(2)).ElapsedSeconds
	if final < before || final != 2 {
		t.Fatalf("expected elapsed to reach 2s without dropping, got %v after %v", final, before)
	}
	samples := s.Samples()
	if len(samples) != 1 || samples[0].WPM != 18 {
		t.Fatalf("expected one sample at 18 wpm, got %+v", samples)
	}
	if m := s.Metrics(at(100)); m.ElapsedSeconds != 2 || m.WPM != 18 {
		t.Fatalf("expected frozen 2s and 18 wpm, got %+v", m)
	}
}

func TestCheckInvariantsClockMatchesPhase(t *testing.T) {
	s := newSession(t, "ab")
	s.clock.Start(at(0))
	if err := s.CheckInvariants(); err == nil {
		t.Fatalf("expected error for idle session with started clock")
	}

	s = newSession(t, "ab")
	s.OnCharacterKey('a', at(0))
	s.clock.Stop(at(1))
	if err := s.CheckInvariants(); err == nil {
		t.Fatalf("expected error for running session with stopped clock")
	}

	s = newSession(t, "ab")
	typeKeys(t, s, "ab", 0)
	if !s.clock.Stopped() {
		t.Fatalf("expected completed session to stop its clock")
	}
}
