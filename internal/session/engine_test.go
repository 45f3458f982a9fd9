package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
)

type failingSource struct{}

func (failingSource) Generate(model.Difficulty) ([]rune, error) {
	return nil, fmt.Errorf("%w: word list is empty", generator.ErrConfiguration)
}

func counterIDs() EngineOption {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	})
}

func TestEngineResetStartsIdleSession(t *testing.T) {
	e := NewEngine(FixedText("cat"), counterIDs())
	st, err := e.Reset(model.Medium)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st.Phase != model.Idle || st.Cursor != 0 || st.Text() != "cat" || st.Difficulty != model.Medium {
		t.Fatalf("unexpected state: %+v", st)
	}
	if len(e.Samples()) != 0 {
		t.Fatalf("expected no samples after reset")
	}
}

func TestEngineScenarioAllCorrect(t *testing.T) {
	e := NewEngine(FixedText("cat"))
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	var snap model.Snapshot
	for i, k := range []string{"c", "a", "t"} {
		var ok bool
		snap, ok = e.OnCharacterKey(k, at(float64(i)))
		if !ok {
			t.Fatalf("key %q ignored", k)
		}
	}
	if snap.State.Phase != model.Completed || snap.Metrics.WPM != 18 || snap.Metrics.Accuracy != 100 {
		t.Fatalf("unexpected snapshot: %+v", snap.Metrics)
	}
	if m := e.Tick(at(30)); m.ElapsedSeconds != 2 {
		t.Fatalf("expected elapsed frozen at 2s, got %v", m.ElapsedSeconds)
	}
}

func TestEngineIgnoresMultiRuneKeys(t *testing.T) {
	e := NewEngine(FixedText("ab"))
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, k := range []string{"", "ab", "ctrl+a", "shift"} {
		if _, ok := e.OnCharacterKey(k, at(0)); ok {
			t.Fatalf("expected %q to be ignored", k)
		}
	}
	if e.State().Phase != model.Idle {
		t.Fatalf("ignored keys must not start the session")
	}
	if _, ok := e.OnCharacterKey("é", at(0)); !ok {
		t.Fatalf("single code point key should be accepted")
	}
}

func TestEngineStaleTickIsIgnored(t *testing.T) {
	e := NewEngine(FixedText("abc"), counterIDs())
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	old := e.SessionID()
	e.OnCharacterKey("a", at(0))
	if _, ok := e.TickSession(old, at(1)); !ok {
		t.Fatalf("tick for current session should apply")
	}
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if e.SessionID() == old {
		t.Fatalf("reset must mint a new session id")
	}
	if _, ok := e.TickSession(old, at(2)); ok {
		t.Fatalf("tick for superseded session must be ignored")
	}
	m, ok := e.TickSession(e.SessionID(), at(2))
	if !ok || m.ElapsedSeconds != 0 || m.WPM != 0 {
		t.Fatalf("new session should report idle metrics, got %+v", m)
	}
}

func TestEngineResetErrorKeepsSession(t *testing.T) {
	e := NewEngine(FixedText("abc"))
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	id := e.SessionID()
	e.src = failingSource{}
	if _, err := e.Reset(model.Short); !errors.Is(err, generator.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if e.SessionID() != id {
		t.Fatalf("failed reset must keep the previous session")
	}
	if _, err := NewEngine(FixedText("")).Reset(model.Short); !errors.Is(err, generator.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty text, got %v", err)
	}
}

func TestEngineWithoutSession(t *testing.T) {
	e := NewEngine(FixedText("abc"))
	if _, ok := e.OnCharacterKey("a", at(0)); ok {
		t.Fatalf("key without session must be ignored")
	}
	if _, ok := e.OnBackspace(at(0)); ok {
		t.Fatalf("backspace without session must be ignored")
	}
	if m := e.Tick(at(0)); m.Accuracy != 100 || m.WPM != 0 {
		t.Fatalf("unexpected metrics without session: %+v", m)
	}
}

func TestEngineSnapshotsAreCopies(t *testing.T) {
	e := NewEngine(FixedText("ab"))
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap, _ := e.OnCharacterKey("x", at(0))
	snap.State.Slots[0].Judgment = model.Correct
	if e.State().Slots[0].Judgment != model.Incorrect {
		t.Fatalf("mutating a snapshot must not affect the engine")
	}
}

func TestEngineConcurrentAccessKeepsInvariants(t *testing.T) {
	e := NewEngine(FixedText("the quick brown fox jumps over the lazy dog"))
	if _, err := e.Reset(model.Short); err != nil {
		t.Fatalf("reset: %v", err)
	}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				now := at(float64(i))
				switch (i + w) % 3 {
				case 0:
					e.OnBackspace(now)
				case 1:
					e.Tick(now)
				default:
					e.OnCharacterKey("o", now)
				}
			}
		}(w)
	}
	wg.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.current.CheckInvariants(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}
