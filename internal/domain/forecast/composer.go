package forecast

import (
	"fmt"

	"github.com/yanqian/surf-forecast/pkg/util"
)

// SpotProfile carries the location attributes the composer needs.
type SpotProfile struct {
	Surf        bool
	Orientation *int
}

// ComposeHour turns one aligned slot into a ForecastHour. It is pure.
func ComposeHour(slot Slot, spot SpotProfile) ForecastHour {
	hour := ForecastHour{Hour: fmt.Sprintf("%02d:00", slot.Hour)}

	var winds Winds
	if o := slot.Oceanic; o != nil {
		hour.Waves = &Waves{
			TotalHeight: waveReading(o.TotalHeight),
			Windseas:    waveReading(o.Windsea),
			SwellA:      waveReading(o.SwellA),
			SwellB:      waveReading(o.SwellB),
		}
		winds.Sea = &WindReading{
			Value:           o.SeaWind.Speed,
			Direction:       CompassLabel(o.SeaWind.Direction),
			DirectionDegree: wholeDegrees(o.SeaWind.Direction),
		}
	}
	if a := slot.Atmospheric; a != nil {
		gust := a.Wind.Gust
		winds.Coast = &WindReading{
			Value:           a.Wind.Speed,
			Direction:       CompassLabel(a.Wind.Direction),
			DirectionDegree: wholeDegrees(a.Wind.Direction),
			Gust:            &gust,
			Type:            windType(spot, a.Wind.Direction),
		}
		hour.Atmospheric = &Atmospheric{
			Pressure:       a.Pressure,
			Temperature:    a.Temperature,
			Clouds:         a.Clouds,
			Precipitation:  a.Precipitation,
			StormPotential: a.StormPotential,
		}
	}
	if winds.Coast != nil || winds.Sea != nil {
		hour.Winds = &winds
	}
	return hour
}

// ComposeDays maps every skeleton to a ForecastDay.
func ComposeDays(skeletons []DaySkeleton, spot SpotProfile) []ForecastDay {
	days := make([]ForecastDay, 0, len(skeletons))
	for _, sk := range skeletons {
		day := ForecastDay{
			Day:   sk.Date.Format(util.DateLayout),
			Hours: make([]ForecastHour, 0, len(sk.Slots)),
			Tides: copyTides(sk.Tides),
		}
		for _, slot := range sk.Slots {
			day.Hours = append(day.Hours, ComposeHour(slot, spot))
		}
		days = append(days, day)
	}
	return days
}

func waveReading(w WaveSample) WaveReading {
	return WaveReading{
		Value:           w.Height,
		Period:          w.Period,
		Direction:       CompassLabel(w.Direction),
		DirectionDegree: wholeDegrees(w.Direction),
		Energy:          w.Energy,
		Power:           w.Power,
	}
}

func windType(spot SpotProfile, direction float64) WindType {
	if !spot.Surf || spot.Orientation == nil {
		return WindOceanic
	}
	return ClassifyWind(float64(*spot.Orientation), direction)
}
