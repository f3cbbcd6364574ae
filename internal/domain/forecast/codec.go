package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// maxDayIndex bounds the day keys accepted from a blob (v0..v31).
	maxDayIndex = 31
	// maxSamplesPerDay keeps sample times distinct at minute precision.
	maxSamplesPerDay = 24 * 60
)

type dayTable [][]string

func (t dayTable) value(variable, sample int) (float64, bool) {
	if variable >= len(t) || sample >= len(t[variable]) {
		return 0, false
	}
	return parseNumber(t[variable][sample])
}

func (t dayTable) samples() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// decodedBlob is the fixed-schema view of one raw forecast file.
type decodedBlob struct {
	base    time.Time
	days    map[int]dayTable
	beach   map[int]dayTable
	skipped int
}

var errMissingPayload = errors.New("raw blob has no dados object")

func decodeBlob(data []byte) (decodedBlob, error) {
	var envelope struct {
		Dados map[string]json.RawMessage `json:"dados"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return decodedBlob{}, fmt.Errorf("decode raw blob: %w", err)
	}
	if envelope.Dados == nil {
		return decodedBlob{}, errMissingPayload
	}
	base, err := baseDate(envelope.Dados)
	if err != nil {
		return decodedBlob{}, err
	}

	out := decodedBlob{base: base, days: map[int]dayTable{}, beach: map[int]dayTable{}}
	for key, raw := range envelope.Dados {
		if len(key) < 2 || (key[0] != 'v' && key[0] != 's') {
			continue
		}
		day, err := strconv.Atoi(key[1:])
		if err != nil || day < 0 || day > maxDayIndex || key[1:] != strconv.Itoa(day) {
			continue
		}
		var entry string
		if err := json.Unmarshal(raw, &entry); err != nil {
			out.skipped++
			continue
		}
		table := splitDay(entry)
		if table == nil {
			continue
		}
		if table.samples() > maxSamplesPerDay {
			out.skipped += table.samples()
			continue
		}
		if key[0] == 'v' {
			out.days[day] = table
		} else {
			out.beach[day] = table
		}
	}
	return out, nil
}

func baseDate(dados map[string]json.RawMessage) (time.Time, error) {
	parts := [3]int{}
	for i, key := range []string{"ano", "mes", "dia"} {
		raw, ok := dados[key]
		if !ok {
			return time.Time{}, fmt.Errorf("raw blob missing %q", key)
		}
		v, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(raw)), `"`))
		if err != nil {
			return time.Time{}, fmt.Errorf("raw blob field %q: %w", key, err)
		}
		parts[i] = v
	}
	year, month, day := parts[0], parts[1], parts[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("raw blob date %04d-%02d-%02d out of range", year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("raw blob date %04d-%02d-%02d does not exist", year, month, day)
	}
	return t, nil
}

func splitDay(entry string) dayTable {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}
	vars := strings.Split(entry, ";")
	table := make(dayTable, len(vars))
	for i, v := range vars {
		table[i] = strings.Split(v, ":")
	}
	return table
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// sampleTime spreads n samples evenly over the day starting at midnight,
// truncated to the minute.
func sampleTime(base time.Time, day, sample, n int) time.Time {
	step := 24 * time.Hour / time.Duration(n)
	return base.AddDate(0, 0, day).Add(time.Duration(sample) * step).Truncate(time.Minute)
}

func sortedDays(days map[int]dayTable) []int {
	keys := make([]int, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// parseOceanic decodes an oceanic (or beach) blob. Samples with a missing or
// malformed field are dropped and counted in skipped.
func parseOceanic(locationID int64, data []byte) ([]RawOceanicRecord, map[string][]Tide, int, error) {
	blob, err := decodeBlob(data)
	if err != nil {
		return nil, nil, 0, err
	}
	skipped := blob.skipped
	records := make([]RawOceanicRecord, 0, len(blob.days)*8)
	tides := make(map[string][]Tide)

	for _, day := range sortedDays(blob.days) {
		table := blob.days[day]
		n := table.samples()
		if len(table) < oceanRequiredVars {
			skipped += n
			continue
		}
		beach := blob.beach[day]
		for i := 0; i < n; i++ {
			rec, ok := oceanicSample(table, beach, i)
			if !ok {
				skipped++
				continue
			}
			rec.LocationID = locationID
			rec.Timestamp = sampleTime(blob.base, day, i, n)
			records = append(records, rec)
		}
		if len(table) > oceanTides && len(table[oceanTides]) > 0 {
			if parsed := parseTides(table[oceanTides][0]); len(parsed) > 0 {
				date := blob.base.AddDate(0, 0, day).Format("2006-01-02")
				tides[date] = parsed
			}
		}
	}
	return records, tides, skipped, nil
}

func oceanicSample(table, beach dayTable, i int) (RawOceanicRecord, bool) {
	var rec RawOceanicRecord
	var ok bool
	if rec.TotalHeight, ok = waveTrain(table, 0, i); !ok {
		return rec, false
	}
	if rec.Windsea, ok = waveTrain(table, oceanWindseaOffset, i); !ok {
		return rec, false
	}
	if rec.SwellA, ok = waveTrain(table, oceanSwellAOffset, i); !ok {
		return rec, false
	}
	if rec.SwellB, ok = waveTrain(table, oceanSwellBOffset, i); !ok {
		return rec, false
	}
	speed, ok1 := table.value(oceanSeaWind, i)
	dir, ok2 := table.value(oceanSeaWindDir, i)
	if !ok1 || !ok2 {
		return rec, false
	}
	rec.SeaWind = WindSample{Speed: speed, Direction: dir}

	// Beach refinements replace the open-ocean heights when they decode cleanly.
	if beach != nil {
		overrideHeight(&rec.TotalHeight, beach, beachTotalHeight, i)
		overrideHeight(&rec.Windsea, beach, beachWindseaHeight, i)
		overrideHeight(&rec.SwellA, beach, beachSwellAHeight, i)
		overrideHeight(&rec.SwellB, beach, beachSwellBHeight, i)
	}
	return rec, true
}

func waveTrain(table dayTable, offset, i int) (WaveSample, bool) {
	var vals [5]float64
	for k := range vals {
		v, ok := table.value(offset+k, i)
		if !ok {
			return WaveSample{}, false
		}
		vals[k] = v
	}
	return WaveSample{
		Height:    vals[waveHeight] / scaleFactor,
		Period:    vals[wavePeriod] / scaleFactor,
		Direction: vals[waveDirection],
		Energy:    vals[waveEnergy],
		Power:     vals[wavePower] / scaleFactor,
	}, true
}

func overrideHeight(w *WaveSample, beach dayTable, variable, i int) {
	if v, ok := beach.value(variable, i); ok {
		w.Height = v / scaleFactor
	}
}

// parseAtmospheric decodes an atmospheric blob.
func parseAtmospheric(locationID int64, data []byte) ([]RawAtmosphericRecord, int, error) {
	blob, err := decodeBlob(data)
	if err != nil {
		return nil, 0, err
	}
	skipped := blob.skipped
	records := make([]RawAtmosphericRecord, 0, len(blob.days)*8)
	for _, day := range sortedDays(blob.days) {
		table := blob.days[day]
		n := table.samples()
		if len(table) < atmosRequiredVars {
			skipped += n
			continue
		}
		for i := 0; i < n; i++ {
			var vals [atmosRequiredVars]float64
			valid := true
			for k := range vals {
				v, ok := table.value(k, i)
				if !ok {
					valid = false
					break
				}
				vals[k] = v
			}
			if !valid {
				skipped++
				continue
			}
			records = append(records, RawAtmosphericRecord{
				LocationID: locationID,
				Timestamp:  sampleTime(blob.base, day, i, n),
				Wind: WindSample{
					Speed:     vals[atmosWind],
					Direction: vals[atmosWindDirection],
					Gust:      vals[atmosWindGust],
				},
				StormPotential: vals[atmosStormPotential],
				Pressure:       vals[atmosPressure],
				Temperature:    vals[atmosTemperature],
				Clouds:         vals[atmosClouds],
				Precipitation:  vals[atmosPrecipitation],
			})
		}
	}
	return records, skipped, nil
}

// parseTides reads consecutive HHMMhd groups; groups that are not all digits are ignored.
func parseTides(raw string) []Tide {
	raw = strings.TrimSpace(raw)
	out := make([]Tide, 0, len(raw)/tideGroupLen)
	for i := 0; i+tideGroupLen <= len(raw); i += tideGroupLen {
		group := raw[i : i+tideGroupLen]
		if !allDigits(group) {
			continue
		}
		hh, mm := group[0:2], group[2:4]
		if hh > "23" || mm > "59" {
			continue
		}
		height, _ := strconv.ParseFloat(group[4:5]+"."+group[5:6], 64)
		out = append(out, Tide{Time: hh + ":" + mm, Height: height})
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
