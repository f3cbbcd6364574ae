package forecast

import (
	"time"

	"github.com/yanqian/surf-forecast/pkg/util"
)

const (
	mockLocationID  = 10
	mockName        = "Point de Itaúna"
	mockOrientation = 160
	mockDays        = 2
	mockStep        = 3 * time.Hour
)

var mockDate = time.Date(2022, time.April, 5, 0, 0, 0, 0, time.UTC)

// MockResponse returns a fixed forecast for contract testing. It runs a
// synthetic raw window through the same aligner, composer and reducer as live
// requests, so its shape always matches theirs.
func MockResponse(model EnergyModel) Response {
	raw := mockWindow()
	orientation := mockOrientation
	spot := SpotProfile{Surf: true, Orientation: &orientation}
	end := mockDate.AddDate(0, 0, mockDays-1)
	days := ComposeDays(NewAligner(0, 90*time.Minute).Align(raw, mockDate, end), spot)
	return Response{
		ID:          "10",
		Date:        mockDate.Format(util.DateLayout),
		Type:        TypeSurf,
		Name:        mockName,
		Orientation: mockOrientation,
		Forecast: Body{
			Summary: Reduce(days, model.withDefaults()),
			Days:    days,
		},
	}
}

func mockWindow() RawWindow {
	w := RawWindow{Tides: map[string][]Tide{}}
	samples := mockDays * int(24*time.Hour/mockStep)
	for i := 0; i < samples; i++ {
		at := mockDate.Add(time.Duration(i) * mockStep)
		f := float64(i % 8)
		w.Atmospheric = append(w.Atmospheric, RawAtmosphericRecord{
			LocationID:     mockLocationID,
			Timestamp:      at,
			Wind:           WindSample{Speed: 4 + f, Direction: 20 + 22.5*f, Gust: 7 + f},
			StormPotential: 0,
			Pressure:       1014 - f/2,
			Temperature:    22 + f/2,
			Clouds:         10 * f,
			Precipitation:  f / 4,
		})
		w.Oceanic = append(w.Oceanic, RawOceanicRecord{
			LocationID:  mockLocationID,
			Timestamp:   at,
			TotalHeight: WaveSample{Height: 1.2 + f/10, Period: 11, Direction: 170, Energy: 820 + 20*f, Power: 14.5 + f},
			Windsea:     WaveSample{Height: 0.4 + f/20, Period: 5, Direction: 90 + 10*f, Energy: 60, Power: 1.2},
			SwellA:      WaveSample{Height: 1.1, Period: 12, Direction: 180, Energy: 700, Power: 12.1},
			SwellB:      WaveSample{Height: 0.3, Period: 8, Direction: 135, Energy: 40, Power: 0.8},
			SeaWind:     WindSample{Speed: 6 + f, Direction: 45 + 22.5*f},
		})
	}
	for d := 0; d < mockDays; d++ {
		date := mockDate.AddDate(0, 0, d).Format(util.DateLayout)
		w.Tides[date] = []Tide{
			{Time: "03:12", Height: 1.1},
			{Time: "09:40", Height: 0.2},
			{Time: "15:31", Height: 1.2},
			{Time: "21:55", Height: 0.3},
		}
	}
	return w
}
