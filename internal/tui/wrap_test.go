package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
)

func slotsFor(text string, judgments ...model.Judgment) []model.CharacterSlot {
	slots := make([]model.CharacterSlot, 0, len(text))
	for i, r := range []rune(text) {
		j := model.Pending
		if i < len(judgments) {
			j = judgments[i]
		}
		slots = append(slots, model.CharacterSlot{Char: r, Judgment: j})
	}
	return slots
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes(slotsFor("ab", model.Correct), 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildStyledRunes(slotsFor("a", model.Correct), 1)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := buildStyledRunes(slotsFor("ab", model.Correct, model.Incorrect), 2)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style with the target rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes(slotsFor("one two", model.Correct), 1)
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped rune in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesCursorOnSpaceHighlightsNextWord(t *testing.T) {
	runes := buildStyledRunes(slotsFor("ab cd", model.Correct, model.Correct), 2)
	if runes[3].s != currentWordStyle.Render("c") {
		t.Fatalf("expected next word highlighted while cursor is on the separator")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := buildStyledRunes(slotsFor("a b", model.Correct, model.Incorrect), 2)
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
	if !runes[1].isSpace {
		t.Fatalf("expected a mistyped space to remain a break point")
	}
}

func TestWrapStyledRunesBreaksAfterSpace(t *testing.T) {
	runes := buildStyledRunes(slotsFor("aaa bbb ccc"), -1)
	out := wrapStyledRunes(runes, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lineWidthOf(buildStyledRunes(slotsFor("aaa bbb "), -1)) != 8 {
		t.Fatalf("unexpected width helper result")
	}
}

func TestWrapStyledRunesSplitsLongWord(t *testing.T) {
	runes := buildStyledRunes(slotsFor("abcdefgh"), -1)
	out := wrapStyledRunes(runes, 3)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("expected 2 breaks, got %d", n)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	runes := buildStyledRunes(slotsFor("ab cd"), -1)
	if strings.Contains(wrapStyledRunes(runes, 0), "\n") {
		t.Fatalf("expected no wrapping without a width")
	}
}

func TestFindWords(t *testing.T) {
	words := findWords(slotsFor(" ab  c "))
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != (wordRange{start: 1, end: 3}) || words[1] != (wordRange{start: 5, end: 6}) {
		t.Fatalf("unexpected ranges: %+v", words)
	}
	if wordForCursor(words, 7) != nil {
		t.Fatalf("expected no word past the end")
	}
}
