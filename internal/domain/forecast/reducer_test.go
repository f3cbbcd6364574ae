package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReduceTakesWindowMaxima(t *testing.T) {
	start := day(2024, 1, 15)
	w := hourlyWindow(start, 1)
	days := ComposeDays(NewAligner(0, time.Hour).Align(w, start, start), SpotProfile{Surf: true})

	s := Reduce(days, DefaultEnergyModel())

	// hour 23 carries the largest values: height 1+2.3, sea wind 5+2.3
	assert.InDelta(t, 3.3, s.MaxHeight, 1e-9)
	assert.InDelta(t, 7.3, s.MaxWind, 1e-9)
	assert.InDelta(t, WaveEnergyKJ(3.3, 10), s.MaxEnergy, 1e-6)
	assert.InDelta(t, WavePowerKW(3.3, 10), s.MaxPower, 1e-6)
}

func TestReducePicksTheStrongerWindSource(t *testing.T) {
	coast := WindReading{Value: 12}
	days := []ForecastDay{{Hours: []ForecastHour{
		{Winds: &Winds{Coast: &coast, Sea: &WindReading{Value: 9}}},
		{Winds: &Winds{Sea: &WindReading{Value: 11}}},
		{},
	}}}

	s := Reduce(days, DefaultEnergyModel())
	assert.Equal(t, 12.0, s.MaxWind)
	assert.Zero(t, s.MaxHeight)
}

func TestReduceEmptyWindowYieldsZeros(t *testing.T) {
	assert.Equal(t, Summary{}, Reduce(nil, DefaultEnergyModel()))
	assert.Equal(t, Summary{}, Reduce([]ForecastDay{{Day: "2024-01-15", Hours: []ForecastHour{}}}, EnergyModel{}))
}

func TestReduceUsesInjectedModel(t *testing.T) {
	days := []ForecastDay{{Hours: []ForecastHour{
		{Waves: &Waves{TotalHeight: WaveReading{Value: 2, Period: 9}}},
		{Waves: &Waves{TotalHeight: WaveReading{Value: 1, Period: 14}}},
	}}}
	model := EnergyModel{
		Energy: func(h, p float64) float64 { return h * p },
		Power:  func(h, p float64) float64 { return math.NaN() },
	}

	s := Reduce(days, model)
	assert.Equal(t, 2.0, s.MaxHeight)
	assert.Equal(t, 18.0, s.MaxEnergy)
	assert.Zero(t, s.MaxPower)
}

func TestReduceSkipsHoursWithoutData(t *testing.T) {
	calls := 0
	model := EnergyModel{Energy: func(h, p float64) float64 { calls++; return h * p }}
	days := []ForecastDay{{Hours: []ForecastHour{
		{Hour: "00:00"},
		{Hour: "01:00", Atmospheric: &Atmospheric{Pressure: 1013}},
		{Hour: "02:00", Waves: &Waves{TotalHeight: WaveReading{Value: 1.5, Period: 8}}},
	}}}

	s := Reduce(days, model)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 12.0, s.MaxEnergy)
	assert.Zero(t, s.MaxWind)
}
