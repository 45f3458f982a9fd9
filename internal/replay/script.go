// Package replay drives a typing session headlessly from a key script.
package replay

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Step is one scripted keystroke.
type Step struct {
	Key       string
	Backspace bool
	// At is the offset from the first key. Only meaningful when HasAt is set.
	At    time.Duration
	HasAt bool
}

var namedKeys = map[string]string{
	"<space>": " ",
	"<comma>": ",",
	"<at>":    "@",
}

// ParseScript reads a comma separated key script such as
// "c,a@1s,t@2s,<space>,<bs>". Whitespace around tokens is ignored.
func ParseScript(script string) ([]Step, error) {
	fields := strings.Split(script, ",")
	steps := make([]Step, 0, len(fields))
	for i, field := range fields {
		token := strings.TrimSpace(field)
		if token == "" {
			if len(fields) == 1 {
				break
			}
			return nil, fmt.Errorf("token %d: empty key", i+1)
		}
		step, err := parseToken(token)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("script has no keys")
	}
	return steps, nil
}

func parseToken(token string) (Step, error) {
	var step Step
	keyPart := token
	if idx := strings.LastIndex(token, "@"); idx > 0 {
		d, err := time.ParseDuration(token[idx+1:])
		if err != nil {
			return Step{}, fmt.Errorf("invalid offset in %q: %w", token, err)
		}
		if d < 0 {
			return Step{}, fmt.Errorf("negative offset in %q", token)
		}
		keyPart = token[:idx]
		step.At = d
		step.HasAt = true
	}
	if keyPart == "<bs>" {
		step.Backspace = true
		return step, nil
	}
	if named, ok := namedKeys[keyPart]; ok {
		step.Key = named
		return step, nil
	}
	if utf8.RuneCountInString(keyPart) != 1 {
		return Step{}, fmt.Errorf("key %q must be a single character", keyPart)
	}
	step.Key = keyPart
	return step, nil
}

// Offsets resolves the time offset of every step. Steps without an explicit
// offset follow the previous one by step; the first defaults to zero.
func Offsets(steps []Step, step time.Duration) ([]time.Duration, error) {
	out := make([]time.Duration, len(steps))
	var prev time.Duration
	for i, s := range steps {
		cur := prev + step
		if i == 0 {
			cur = 0
		}
		if s.HasAt {
			cur = s.At
		}
		if i > 0 && cur < prev {
			return nil, fmt.Errorf("step %d: offset %s is before %s", i+1, cur, prev)
		}
		out[i] = cur
		prev = cur
	}
	return out, nil
}
