package forecast

const (
	offshoreThreshold = 125.0
	crossedThreshold  = 65.0
)

// ClassifyWind compares where the wind blows from with the direction the
// coast faces. A wind from straight ahead is onshore, from behind offshore.
func ClassifyWind(orientation, windDirection float64) WindType {
	diff := normalizeDegrees(orientation - windDirection)
	if diff > 180 {
		diff = 360 - diff
	}
	switch {
	case diff > offshoreThreshold:
		return WindOffshore
	case diff > crossedThreshold:
		return WindCrossed
	default:
		return WindOnshore
	}
}
