package todo

import "time"

// IDSource hands out task ids from a clock. Ids are the clock's Unix
// milliseconds, bumped past the last issued or observed id so they never repeat.
type IDSource struct {
	now  func() time.Time
	last ID
}

// NewIDSource returns an IDSource reading now. A nil now uses time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Observe records an existing id so Next never returns it or anything below it.
func (s *IDSource) Observe(id ID) {
	if id > s.last {
		s.last = id
	}
}

// Next returns a fresh id.
func (s *IDSource) Next() ID {
	id := ID(s.now().UnixMilli())
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
