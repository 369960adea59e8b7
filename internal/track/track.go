// Package track models vessel movement tracks: sequences of timestamped
// positions, the segments between them, and the sanitization that turns
// noisy reported positions into a consistent track.
package track

import "time"

// Segment connects two consecutive positions of a track. Distance and
// duration are derived from the positions it bridges.
type Segment struct {
	Start Position
	End   Position
}

// Distance returns the great-circle distance in meters between the
// segment's endpoints.
func (s Segment) Distance() float64 {
	return GreatCircleDistance(s.Start.Lon, s.Start.Lat, s.End.Lon, s.End.Lat)
}

// Duration returns the wall-clock time between the segment's endpoints.
func (s Segment) Duration() time.Duration {
	return s.End.TS.Sub(s.Start.TS)
}

// Track is a time-ordered sequence of sanitized positions. Segments are
// derived between consecutive positions on demand.
type Track struct {
	Positions []Position
}

// Segments returns the segments bridging consecutive positions, in
// order. A track with fewer than two positions has none.
func (t *Track) Segments() []Segment {
	if len(t.Positions) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(t.Positions)-1)
	for i := 1; i < len(t.Positions); i++ {
		segments = append(segments, Segment{Start: t.Positions[i-1], End: t.Positions[i]})
	}
	return segments
}

// Distance returns the total track distance in meters.
func (t *Track) Distance() float64 {
	var total float64
	for _, s := range t.Segments() {
		total += s.Distance()
	}
	return total
}

// Duration returns the total time covered by the track.
func (t *Track) Duration() time.Duration {
	if len(t.Positions) < 2 {
		return 0
	}
	return t.Positions[len(t.Positions)-1].TS.Sub(t.Positions[0].TS)
}

// Partial returns the sub-track whose positions fall inside the closed
// interval [start, end]. The bounding positions are included when their
// timestamps match exactly.
func (t *Track) Partial(start, end time.Time) *Track {
	if start.After(end) {
		return &Track{}
	}
	var positions []Position
	for _, p := range t.Positions {
		if p.TS.Before(start) {
			continue
		}
		if p.TS.After(end) {
			break
		}
		positions = append(positions, p)
	}
	return &Track{Positions: positions}
}
