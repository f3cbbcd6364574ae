package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeHourFullSlot(t *testing.T) {
	w := hourlyWindow(day(2024, 1, 15), 1)
	slot := Slot{Hour: 7, Atmospheric: &w.Atmospheric[7], Oceanic: &w.Oceanic[7]}

	hour := ComposeHour(slot, SpotProfile{Surf: true, Orientation: intPtr(160)})

	assert.Equal(t, "07:00", hour.Hour)
	require.NotNil(t, hour.Waves)
	assert.Equal(t, WaveReading{Value: 1.7, Period: 10, Direction: "S", DirectionDegree: 170}, hour.Waves.TotalHeight)
	assert.Equal(t, "E", hour.Waves.Windseas.Direction)
	assert.Equal(t, "S", hour.Waves.SwellA.Direction)
	assert.Equal(t, "SE", hour.Waves.SwellB.Direction)

	require.NotNil(t, hour.Winds)
	require.NotNil(t, hour.Winds.Coast)
	assert.Equal(t, 3.7, hour.Winds.Coast.Value)
	assert.Equal(t, "NNW", hour.Winds.Coast.Direction)
	assert.Equal(t, 340, hour.Winds.Coast.DirectionDegree)
	require.NotNil(t, hour.Winds.Coast.Gust)
	assert.Equal(t, 6.7, *hour.Winds.Coast.Gust)
	assert.Equal(t, WindOffshore, hour.Winds.Coast.Type)

	require.NotNil(t, hour.Winds.Sea)
	assert.Equal(t, "NE", hour.Winds.Sea.Direction)
	assert.Nil(t, hour.Winds.Sea.Gust)
	assert.Empty(t, hour.Winds.Sea.Type)

	require.NotNil(t, hour.Atmospheric)
	assert.Equal(t, 1012.0, hour.Atmospheric.Pressure)
	assert.Equal(t, 25.0, hour.Atmospheric.Temperature)
}

func TestComposeHourPartialSlots(t *testing.T) {
	w := hourlyWindow(day(2024, 1, 15), 1)

	oceanOnly := ComposeHour(Slot{Hour: 3, Oceanic: &w.Oceanic[3]}, SpotProfile{Surf: true})
	assert.NotNil(t, oceanOnly.Waves)
	require.NotNil(t, oceanOnly.Winds)
	assert.Nil(t, oceanOnly.Winds.Coast)
	assert.NotNil(t, oceanOnly.Winds.Sea)
	assert.Nil(t, oceanOnly.Atmospheric)

	atmosOnly := ComposeHour(Slot{Hour: 3, Atmospheric: &w.Atmospheric[3]}, SpotProfile{})
	assert.Nil(t, atmosOnly.Waves)
	require.NotNil(t, atmosOnly.Winds)
	assert.Nil(t, atmosOnly.Winds.Sea)
	assert.Equal(t, WindOceanic, atmosOnly.Winds.Coast.Type)
	assert.NotNil(t, atmosOnly.Atmospheric)

	empty := ComposeHour(Slot{Hour: 3}, SpotProfile{})
	assert.Equal(t, "03:00", empty.Hour)
	assert.False(t, empty.Populated())
}

func TestComposeHourSurfSpotWithoutOrientation(t *testing.T) {
	w := hourlyWindow(day(2024, 1, 15), 1)
	hour := ComposeHour(Slot{Atmospheric: &w.Atmospheric[0]}, SpotProfile{Surf: true})
	assert.Equal(t, WindOceanic, hour.Winds.Coast.Type)
}

func TestComposeDays(t *testing.T) {
	start := day(2024, 1, 15)
	w := hourlyWindow(start, 1)
	w.Tides["2024-01-15"] = []Tide{{Time: "05:10", Height: 1.4}}
	skeletons := NewAligner(0, time.Hour).Align(w, start, start.AddDate(0, 0, 1))

	days := ComposeDays(skeletons, SpotProfile{Surf: true, Orientation: intPtr(160)})
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-15", days[0].Day)
	assert.Len(t, days[0].Hours, HoursPerDay)
	assert.Equal(t, []Tide{{Time: "05:10", Height: 1.4}}, days[0].Tides)

	assert.Equal(t, "2024-01-16", days[1].Day)
	assert.NotNil(t, days[1].Hours)
	assert.Empty(t, days[1].Hours)
	assert.NotNil(t, days[1].Tides)
}
