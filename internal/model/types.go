// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects the length of the generated text.
type Difficulty int

// Difficulty levels.
const (
	Short Difficulty = iota
	Medium
	Long
)

// Difficulties lists every level in selector order.
var Difficulties = []Difficulty{Short, Medium, Long}

func (d Difficulty) String() string {
	switch d {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Next returns the following level, wrapping from Long to Short.
func (d Difficulty) Next() Difficulty {
	return Difficulty((int(d) + 1) % len(Difficulties))
}

// ParseDifficulty maps a name such as "medium" to its level.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "s":
		return Short, nil
	case "medium", "m":
		return Medium, nil
	case "long", "l":
		return Long, nil
	default:
		return Short, fmt.Errorf("unknown difficulty %q (want short, medium or long)", s)
	}
}

// WordCounts maps each difficulty to a target word count.
type WordCounts struct {
	Short  int
	Medium int
	Long   int
}

// DefaultWordCounts is used when no configuration overrides it.
var DefaultWordCounts = WordCounts{Short: 15, Medium: 30, Long: 60}

// For returns the word count configured for d.
func (w WordCounts) For(d Difficulty) int {
	switch d {
	case Short:
		return w.Short
	case Medium:
		return w.Medium
	case Long:
		return w.Long
	default:
		return 0
	}
}

// Judgment is the verdict on a single target character.
type Judgment int

// Judgments.
const (
	Pending Judgment = iota
	Correct
	Incorrect
)

func (j Judgment) String() string {
	switch j {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("judgment(%d)", int(j))
	}
}

// Phase is the lifecycle stage of a session.
type Phase int

// Phases.
const (
	Idle Phase = iota
	Running
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CharacterSlot is one target character plus its judgment.
type CharacterSlot struct {
	Char     rune
	Judgment Judgment
}

// SessionState is a snapshot of a typing session.
// StartTime and EndTime are zero until set.
type SessionState struct {
	ID              string
	Difficulty      Difficulty
	Slots           []CharacterSlot
	Cursor          int
	StartTime       time.Time
	EndTime         time.Time
	TotalErrors     int
	TotalKeystrokes int
	Phase           Phase
}

// Text returns the target text.
func (s SessionState) Text() string {
	runes := make([]rune, len(s.Slots))
	for i, slot := range s.Slots {
		runes[i] = slot.Char
	}
	return string(runes)
}

// Clone returns a deep copy of the state.
func (s SessionState) Clone() SessionState {
	out := s
	out.Slots = make([]CharacterSlot, len(s.Slots))
	copy(out.Slots, s.Slots)
	return out
}

// PerformanceSample is recorded at every word boundary.
type PerformanceSample struct {
	WordIndex int `json:"index" yaml:"index"`
	WPM       int `json:"wpm" yaml:"wpm"`
	RawWPM    int `json:"raw_wpm" yaml:"raw_wpm"`
	Errors    int `json:"errors" yaml:"errors"`
}

// Metrics are derived from a SessionState and an elapsed time.
type Metrics struct {
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	WPM            int     `json:"wpm" yaml:"wpm"`
	RawWPM         int     `json:"raw_wpm" yaml:"raw_wpm"`
	Accuracy       float64 `json:"accuracy" yaml:"accuracy"`
	Errors         int     `json:"errors" yaml:"errors"`
	Keystrokes     int     `json:"keystrokes" yaml:"keystrokes"`
	Cursor         int     `json:"cursor" yaml:"cursor"`
	Length         int     `json:"length" yaml:"length"`
}

// Snapshot pairs a state with the metrics computed for it.
type Snapshot struct {
	State   SessionState
	Metrics Metrics
}

// Config defines practice settings.
type Config struct {
	Lang         string
	Difficulty   Difficulty
	WordCounts   WordCounts
	WordListPath string
	Seed         int64
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	Tick         time.Duration
	Watch        bool
	LogFile      string
	LogLevel     string
}
