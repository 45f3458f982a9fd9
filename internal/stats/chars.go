package stats

import (
	"sort"

	"github.com/verte-zerg/typetest/internal/model"
)

// CharTally counts final judgments for one target character.
type CharTally struct {
	Char      rune
	Correct   int
	Incorrect int
}

// TallyChars groups judged slots by target character. Pending slots and
// separators are skipped.
func TallyChars(slots []model.CharacterSlot) []CharTally {
	idx := map[rune]int{}
	var out []CharTally
	for _, slot := range slots {
		if slot.Judgment == model.Pending || slot.Char == ' ' {
			continue
		}
		i, ok := idx[slot.Char]
		if !ok {
			i = len(out)
			idx[slot.Char] = i
			out = append(out, CharTally{Char: slot.Char})
		}
		if slot.Judgment == model.Correct {
			out[i].Correct++
		} else {
			out[i].Incorrect++
		}
	}
	return out
}

// WeakestChars returns up to top characters that were mistyped, lowest
// accuracy first. A non-positive top returns all of them.
func WeakestChars(tallies []CharTally, top int) []rune {
	candidates := make([]CharTally, 0, len(tallies))
	for _, t := range tallies {
		if t.Incorrect > 0 {
			candidates = append(candidates, t)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := charAccuracy(candidates[i])
		aj := charAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]rune, 0, top)
	for _, c := range candidates[:top] {
		out = append(out, c.Char)
	}
	return out
}

func charAccuracy(t CharTally) float64 {
	total := t.Correct + t.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(t.Correct) / float64(total)
}
