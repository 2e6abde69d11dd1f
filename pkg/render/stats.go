package render

import (
	"fmt"
	"time"
)

// threadStats are one worker's counters for a frame.
type threadStats struct {
	walls, planes, masked time.Duration

	wallColumns int
	spans       int
	visplanes   int
	drawsegs    int
	windows     int
}

// Stats reports where a frame's time went. Durations of the wall, plane and
// masked passes are summed over workers, so with several workers they can
// exceed Frame.
type Stats struct {
	Workers int

	Frame  time.Duration
	Setup  time.Duration
	Walls  time.Duration
	Planes time.Duration
	Masked time.Duration

	WallColumns int
	Spans       int
	Visplanes   int
	Drawsegs    int
	Windows     int
	Sprites     int
	Particles   int
	MaskedWalls int
}

func (s *Stats) add(t *threadStats) {
	s.Walls += t.walls
	s.Planes += t.planes
	s.Masked += t.masked
	s.WallColumns += t.wallColumns
	s.Spans += t.spans
	s.Visplanes += t.visplanes
	s.Drawsegs += t.drawsegs
	s.Windows += t.windows
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// String formats the stats as a single status line.
func (s Stats) String() string {
	return fmt.Sprintf("frame=%.2fms walls=%.2fms planes=%.2fms masked=%.2fms cols=%d spans=%d planes=%d segs=%d sprites=%d particles=%d workers=%d",
		ms(s.Frame), ms(s.Walls), ms(s.Planes), ms(s.Masked),
		s.WallColumns, s.Spans, s.Visplanes, s.Drawsegs, s.Sprites, s.Particles, s.Workers)
}
