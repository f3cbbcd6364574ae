package forecast

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rawBlob encodes entries the way the forecast model writes them.
func rawBlob(t *testing.T, year, month, day int, entries map[string]string) []byte {
	t.Helper()
	dados := map[string]any{"ano": year, "mes": month, "dia": day}
	for k, v := range entries {
		dados[k] = v
	}
	data, err := json.Marshal(map[string]any{"dados": dados})
	require.NoError(t, err)
	return data
}

func dayEntry(vars [][]string) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = strings.Join(v, ":")
	}
	return strings.Join(parts, ";")
}

func repeat(v string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// oceanVars yields every wave train at 1.2 m, 10 s, 180°, energy 500, power 8.5
// and the sea wind at 7 from 90°.
func oceanVars(n int) [][]string {
	vars := make([][]string, oceanTides+1)
	for train := 0; train < 4; train++ {
		base := train * 5
		vars[base+waveHeight] = repeat("12", n)
		vars[base+wavePeriod] = repeat("100", n)
		vars[base+waveDirection] = repeat("180", n)
		vars[base+waveEnergy] = repeat("500", n)
		vars[base+wavePower] = repeat("85", n)
	}
	vars[oceanSeaWind] = repeat("7", n)
	vars[oceanSeaWindDir] = repeat("90", n)
	vars[22] = repeat("0", n)
	vars[oceanTides] = repeat("0", n)
	return vars
}

func atmosVars(n int) [][]string {
	vals := []string{"5", "45", "9", "0", "1013", "24", "30", "0.2"}
	vars := make([][]string, len(vals))
	for i, v := range vals {
		vars[i] = repeat(v, n)
	}
	return vars
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// hourlyWindow builds dense hourly streams over the given days, each record
// carrying its hour in the numeric fields so matches can be traced.
func hourlyWindow(start time.Time, days int) RawWindow {
	w := RawWindow{Tides: map[string][]Tide{}}
	for h := 0; h < days*24; h++ {
		at := start.Add(time.Duration(h) * time.Hour)
		v := float64(h%24) / 10
		w.Atmospheric = append(w.Atmospheric, RawAtmosphericRecord{
			LocationID:  10,
			Timestamp:   at,
			Wind:        WindSample{Speed: 3 + v, Direction: 340, Gust: 6 + v},
			Pressure:    1012,
			Temperature: 25,
		})
		w.Oceanic = append(w.Oceanic, RawOceanicRecord{
			LocationID:  10,
			Timestamp:   at,
			TotalHeight: WaveSample{Height: 1 + v, Period: 10, Direction: 170},
			Windsea:     WaveSample{Height: 0.3, Period: 4, Direction: 90},
			SwellA:      WaveSample{Height: 0.9, Period: 12, Direction: 180},
			SwellB:      WaveSample{Height: 0.2, Period: 8, Direction: 135},
			SeaWind:     WindSample{Speed: 5 + v, Direction: 45},
		})
	}
	return w
}

func intPtr(v int) *int { return &v }

// everyThirdHour thins a window to the model's native 3-hourly rate.
func everyThirdHour(w RawWindow) RawWindow {
	out := RawWindow{Tides: w.Tides}
	for i := 0; i < len(w.Atmospheric); i += 3 {
		out.Atmospheric = append(out.Atmospheric, w.Atmospheric[i])
	}
	for i := 0; i < len(w.Oceanic); i += 3 {
		out.Oceanic = append(out.Oceanic, w.Oceanic[i])
	}
	return out
}
