package logging

import "strings"

// ProgressSampler suppresses repetitive per-recording progress logs while
// preserving signal when the family changes or a percentage bucket is crossed.
type ProgressSampler struct {
	bucketSize float64
	lastFamily string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%) or when the family changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. Percent can be
// negative to indicate "unknown"; family is trimmed before comparison.
func (s *ProgressSampler) ShouldLog(percent float64, family string) bool {
	if s == nil {
		return true
	}
	family = strings.TrimSpace(family)
	emit := false
	if family != "" && family != s.lastFamily {
		s.lastFamily = family
		emit = true
		s.lastBucket = -1
	}
	if percent >= 0 {
		bucket := int(percent / s.bucketSize)
		if percent >= 100 {
			bucket = int(100 / s.bucketSize)
		}
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// ShouldLogCount is ShouldLog for "done of total" progress. A zero total is
// reported as unknown progress.
func (s *ProgressSampler) ShouldLogCount(done, total int, family string) bool {
	if total <= 0 {
		return s.ShouldLog(-1, family)
	}
	return s.ShouldLog(float64(done)*100/float64(total), family)
}

// Reset clears the sampler state (e.g. when a new batch starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastFamily = ""
	s.lastBucket = -1
}
