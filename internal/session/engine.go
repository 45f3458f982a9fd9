package session

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// TextSource produces the target text for a difficulty.
type TextSource interface {
	Generate(d model.Difficulty) ([]rune, error)
}

// FixedText is a TextSource that always returns the same text.
type FixedText string

// Generate implements TextSource.
func (t FixedText) Generate(model.Difficulty) ([]rune, error) {
	return []rune(string(t)), nil
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithIDFunc overrides how session identity tokens are minted.
func WithIDFunc(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// Engine is the call surface for presentation layers. All access to the
// current session is serialized by its mutex, and every Reset mints a new
// session ID so callbacks bound to an old session can be recognized.
type Engine struct {
	mu      sync.Mutex
	src     TextSource
	newID   func() string
	current *Session
}

// NewEngine returns an Engine without a session. Call Reset to start one.
func NewEngine(src TextSource, opts ...EngineOption) *Engine {
	e := &Engine{
		src:   src,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset discards the current session and starts a new idle one. On error the
// previous session is kept.
func (e *Engine) Reset(d model.Difficulty) (model.SessionState, error) {
	text, err := e.src.Generate(d)
	if err != nil {
		return model.SessionState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, err := New(e.newID(), d, text)
	if err != nil {
		return model.SessionState{}, err
	}
	e.current = sess
	return sess.State(), nil
}

// OnCharacterKey feeds a typed key. Keys that are not exactly one code point
// are ignored. The bool reports whether the state changed.
func (e *Engine) OnCharacterKey(key string, now time.Time) (model.Snapshot, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return model.Snapshot{}, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || !e.current.OnCharacterKey(r, now) {
		return model.Snapshot{}, false
	}
	return e.snapshotLocked(now), true
}

// OnBackspace removes the last judged character.
func (e *Engine) OnBackspace(now time.Time) (model.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || !e.current.OnBackspace(now) {
		return model.Snapshot{}, false
	}
	return e.snapshotLocked(now), true
}

// Tick returns live metrics for the current session.
func (e *Engine) Tick(now time.Time) model.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return stats.Compute(model.SessionState{}, 0)
	}
	return e.current.Metrics(now)
}

// TickSession returns live metrics only if id still names the current
// session.
func (e *Engine) TickSession(id string, now time.Time) (model.Metrics, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil || e.current.ID() != id {
		return model.Metrics{}, false
	}
	return e.current.Metrics(now), true
}

// Snapshot returns the current state and metrics at now.
func (e *Engine) Snapshot(now time.Time) model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return model.Snapshot{Metrics: stats.Compute(model.SessionState{}, 0)}
	}
	return e.snapshotLocked(now)
}

// State returns a copy of the current session state.
func (e *Engine) State() model.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return model.SessionState{}
	}
	return e.current.State()
}

// Samples returns a copy of the current session's performance samples.
func (e *Engine) Samples() []model.PerformanceSample {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	return e.current.Samples()
}

// SessionID returns the identity token of the current session.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ""
	}
	return e.current.ID()
}

func (e *Engine) snapshotLocked(now time.Time) model.Snapshot {
	return model.Snapshot{
		State:   e.current.State(),
		Metrics: e.current.Metrics(now),
	}
}
