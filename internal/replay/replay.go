package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/stats"
)

// DefaultStep is the spacing between keys without an explicit offset.
const DefaultStep = time.Second

// Format selects how a Result is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or yaml)", s)
	}
}

// Result is the outcome of a replayed script.
type Result struct {
	Text      string                    `json:"text" yaml:"text"`
	Phase     string                    `json:"phase" yaml:"phase"`
	Applied   int                       `json:"applied" yaml:"applied"`
	Ignored   int                       `json:"ignored" yaml:"ignored"`
	Metrics   model.Metrics             `json:"metrics" yaml:"metrics"`
	Samples   []model.PerformanceSample `json:"samples" yaml:"samples"`
	Judgments string                    `json:"judgments" yaml:"judgments"`
	Missed    string                    `json:"missed" yaml:"missed"`

	state model.SessionState
}

// State returns the final session state.
func (r Result) State() model.SessionState {
	return r.state
}

// Run types the steps into a fresh session over text. Metrics are taken at
// the offset of the last step.
func Run(text string, steps []Step, step time.Duration) (Result, error) {
	offsets, err := Offsets(steps, step)
	if err != nil {
		return Result{}, err
	}
	engine := session.NewEngine(session.FixedText(text))
	if _, err := engine.Reset(model.Short); err != nil {
		return Result{}, err
	}

	base := time.Unix(0, 0).UTC()
	var res Result
	for i, s := range steps {
		now := base.Add(offsets[i])
		var ok bool
		if s.Backspace {
			_, ok = engine.OnBackspace(now)
		} else {
			_, ok = engine.OnCharacterKey(s.Key, now)
		}
		if ok {
			res.Applied++
		} else {
			res.Ignored++
		}
	}

	end := base
	if len(offsets) > 0 {
		end = base.Add(offsets[len(offsets)-1])
	}
	snap := engine.Snapshot(end)
	res.Text = text
	res.state = snap.State
	res.Phase = snap.State.Phase.String()
	res.Metrics = snap.Metrics
	res.Samples = engine.Samples()
	if res.Samples == nil {
		res.Samples = []model.PerformanceSample{}
	}
	res.Judgments = judgmentLine(snap.State.Slots)
	res.Missed = string(stats.WeakestChars(stats.TallyChars(snap.State.Slots), 0))
	return res, nil
}

// judgmentLine renders one mark per slot: '+' correct, 'x' incorrect,
// '.' pending.
func judgmentLine(slots []model.CharacterSlot) string {
	var b strings.Builder
	for _, slot := range slots {
		switch slot.Judgment {
		case model.Correct:
			b.WriteByte('+')
		case model.Incorrect:
			b.WriteByte('x')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Write prints the result in the requested format.
func Write(w io.Writer, res Result, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, res)
	}
}

func writeText(w io.Writer, res Result) error {
	if _, err := fmt.Fprintf(w, "Text      %s\nJudgments %s\nPhase     %s\nMissed    %s\n\n", res.Text, res.Judgments, res.Phase, res.Missed); err != nil {
		return err
	}
	if err := stats.RenderResults(w, res.Metrics); err != nil {
		return err
	}
	return stats.RenderSampleTable(w, res.Samples)
}
