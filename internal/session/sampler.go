package session

import "github.com/verte-zerg/typetest/internal/model"

// Sampler collects one performance sample per word boundary.
type Sampler struct {
	samples    []model.PerformanceSample
	lastErrors int
}

// OnWordBoundary appends a sample. Errors are counted since the previous
// sample and floored at zero, since backspace can lower the running total.
func (s *Sampler) OnWordBoundary(wpm, rawWPM, totalErrors int) model.PerformanceSample {
	errs := totalErrors - s.lastErrors
	if errs < 0 {
		errs = 0
	}
	s.lastErrors = totalErrors
	sample := model.PerformanceSample{
		WordIndex: len(s.samples) + 1,
		WPM:       max(wpm, 0),
		RawWPM:    max(rawWPM, 0),
		Errors:    errs,
	}
	s.samples = append(s.samples, sample)
	return sample
}

// Samples returns a copy of the recorded samples.
func (s *Sampler) Samples() []model.PerformanceSample {
	out := make([]model.PerformanceSample, len(s.samples))
	copy(out, s.samples)
	return out
}
