package forecast

import "math"

const compassSector = 360.0 / 16

var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassLabel maps degrees to one of 16 labels. Each label owns a 22.5°
// sector centred on it, so N covers [348.75, 360) and [0, 11.25).
func CompassLabel(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return ""
	}
	d := normalizeDegrees(deg)
	idx := int(math.Floor(d/compassSector+0.5)) % len(compassLabels)
	return compassLabels[idx]
}

// normalizeDegrees folds any angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

func wholeDegrees(deg float64) int {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	return int(math.Round(normalizeDegrees(deg))) % 360
}
