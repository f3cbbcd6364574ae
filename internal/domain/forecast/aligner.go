package forecast

import (
	"sort"
	"time"

	"github.com/yanqian/surf-forecast/pkg/util"
)

// HoursPerDay is the number of slots on the common axis.
const HoursPerDay = 24

// Slot is one hour of the common axis with the samples matched to it.
type Slot struct {
	Hour        int
	Atmospheric *RawAtmosphericRecord
	Oceanic     *RawOceanicRecord
}

// Populated reports whether either stream matched the slot.
func (s Slot) Populated() bool {
	return s.Atmospheric != nil || s.Oceanic != nil
}

// DaySkeleton is a calendar date with its slots. Slots is empty when no
// sample from either stream falls on the day.
type DaySkeleton struct {
	Date  time.Time
	Slots []Slot
	Tides []Tide
}

// Aligner places two independently sampled streams on one hourly axis by
// nearest-in-time matching. It never interpolates.
type Aligner struct {
	tolerance time.Duration
	fallback  time.Duration
}

// NewAligner builds an aligner. A positive tolerance is used as is; otherwise
// it is derived from the streams and fallback applies when neither stream has
// enough samples to measure its interval.
func NewAligner(tolerance, fallback time.Duration) Aligner {
	return Aligner{tolerance: tolerance, fallback: fallback}
}

// Tolerance returns the matching window for the given streams: half the
// smaller average sampling interval.
func (a Aligner) Tolerance(atmos []RawAtmosphericRecord, ocean []RawOceanicRecord) time.Duration {
	if a.tolerance > 0 {
		return a.tolerance
	}
	ai := averageInterval(atmosTimes(atmos))
	oi := averageInterval(oceanTimes(ocean))
	interval := ai
	if interval == 0 || (oi > 0 && oi < interval) {
		interval = oi
	}
	if interval == 0 {
		return a.fallback
	}
	return interval / 2
}

// Align produces one skeleton per date in [start, end], both inclusive.
func (a Aligner) Align(w RawWindow, start, end time.Time) []DaySkeleton {
	start, end = util.StartOfDay(start), util.StartOfDay(end)
	if end.Before(start) {
		return []DaySkeleton{}
	}
	tol := a.Tolerance(w.Atmospheric, w.Oceanic)
	atimes := atmosTimes(w.Atmospheric)
	otimes := oceanTimes(w.Oceanic)

	days := make([]DaySkeleton, 0, int(end.Sub(start)/(24*time.Hour))+1)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day := DaySkeleton{Date: date, Tides: copyTides(w.Tides[date.Format(util.DateLayout)])}
		slots := make([]Slot, HoursPerDay)
		populated := false
		for h := 0; h < HoursPerDay; h++ {
			at := date.Add(time.Duration(h) * time.Hour)
			slots[h].Hour = h
			if i := nearest(atimes, at, tol); i >= 0 {
				slots[h].Atmospheric = &w.Atmospheric[i]
			}
			if i := nearest(otimes, at, tol); i >= 0 {
				slots[h].Oceanic = &w.Oceanic[i]
			}
			populated = populated || slots[h].Populated()
		}
		if populated {
			day.Slots = slots
		}
		days = append(days, day)
	}
	return days
}

// nearest returns the index of the sample closest to at within tol, or -1.
// Equidistant candidates resolve to the earlier sample.
func nearest(times []time.Time, at time.Time, tol time.Duration) int {
	if len(times) == 0 {
		return -1
	}
	i := sort.Search(len(times), func(k int) bool { return !times[k].Before(at) })
	best, bestDist := -1, time.Duration(0)
	for _, k := range []int{i - 1, i} {
		if k < 0 || k >= len(times) {
			continue
		}
		d := absDuration(times[k].Sub(at))
		if best == -1 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist > tol {
		return -1
	}
	return best
}

func averageInterval(times []time.Time) time.Duration {
	if len(times) < 2 {
		return 0
	}
	span := times[len(times)-1].Sub(times[0])
	if span <= 0 {
		return 0
	}
	return span / time.Duration(len(times)-1)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func atmosTimes(records []RawAtmosphericRecord) []time.Time {
	out := make([]time.Time, len(records))
	for i, r := range records {
		out[i] = r.Timestamp
	}
	return out
}

func oceanTimes(records []RawOceanicRecord) []time.Time {
	out := make([]time.Time, len(records))
	for i, r := range records {
		out[i] = r.Timestamp
	}
	return out
}

func copyTides(tides []Tide) []Tide {
	return append(make([]Tide, 0, len(tides)), tides...)
}
