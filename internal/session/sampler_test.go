package session

import "testing"

func TestSamplerIndexesAndErrorDeltas(t *testing.T) {
	var s Sampler
	s.OnWordBoundary(40, 45, 2)
	s.OnWordBoundary(50, 50, 2)
	s.OnWordBoundary(-3, 10, 1)
	s.OnWordBoundary(30, 30, 4)

	samples := s.Samples()
	wantErrors := []int{2, 0, 0, 3}
	for i, sample := range samples {
		if sample.WordIndex != i+1 {
			t.Fatalf("sample %d: expected index %d, got %d", i, i+1, sample.WordIndex)
		}
		if sample.Errors != wantErrors[i] {
			t.Fatalf("sample %d: expected %d errors, got %d", i, wantErrors[i], sample.Errors)
		}
	}
	if samples[2].WPM != 0 {
		t.Fatalf("expected wpm clamped to 0, got %d", samples[2].WPM)
	}
	samples[0].WPM = 999
	if s.Samples()[0].WPM == 999 {
		t.Fatalf("Samples must return a copy")
	}
}
