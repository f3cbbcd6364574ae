package location

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerDegree   = earthRadiusKm * math.Pi / 180
)

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// boundingBox is a cheap prefilter that never excludes a point inside the range.
type boundingBox struct {
	lat, lon           float64
	latDelta, lonDelta float64
	wrapsPole          bool
}

func newBoundingBox(lat, lon, rangeKm float64) boundingBox {
	latDelta := rangeKm / kmPerDegree
	box := boundingBox{lat: lat, lon: lon, latDelta: latDelta}
	if math.Abs(lat)+latDelta >= 90 {
		box.wrapsPole = true
		return box
	}
	box.lonDelta = latDelta / math.Cos(toRadians(math.Abs(lat)+latDelta))
	if box.lonDelta >= 180 {
		box.wrapsPole = true
	}
	return box
}

func (b boundingBox) contains(lat, lon float64) bool {
	if math.Abs(lat-b.lat) > b.latDelta {
		return false
	}
	if b.wrapsPole {
		return true
	}
	d := math.Mod(math.Abs(lon-b.lon), 360)
	if d > 180 {
		d = 360 - d
	}
	return d <= b.lonDelta
}
