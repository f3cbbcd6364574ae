package forecast

import "time"

// ForecastType distinguishes surf spots from open-ocean cells.
type ForecastType string

const (
	TypeSurf    ForecastType = "SURF"
	TypeOceanic ForecastType = "OCEANIC"
)

// WindType classifies the coastal wind relative to a spot's orientation.
type WindType string

const (
	WindOnshore  WindType = "ONSHORE"
	WindCrossed  WindType = "CROSSED"
	WindOffshore WindType = "OFFSHORE"
	WindOceanic  WindType = "OCEANIC"
)

// WaveSample is one wave train as decoded from the raw oceanic stream.
// Heights are metres, periods seconds, directions degrees.
type WaveSample struct {
	Height    float64
	Period    float64
	Direction float64
	Energy    float64
	Power     float64
}

// WindSample is a wind vector; Direction is where the wind blows from.
type WindSample struct {
	Speed     float64
	Direction float64
	Gust      float64
}

// RawAtmosphericRecord is one atmospheric sample. It carries the coastal wind.
type RawAtmosphericRecord struct {
	LocationID     int64
	Timestamp      time.Time
	Wind           WindSample
	StormPotential float64
	Pressure       float64
	Temperature    float64
	Clouds         float64
	Precipitation  float64
}

// RawOceanicRecord is one oceanic sample. It carries the sea wind.
type RawOceanicRecord struct {
	LocationID  int64
	Timestamp   time.Time
	TotalHeight WaveSample
	Windsea     WaveSample
	SwellA      WaveSample
	SwellB      WaveSample
	SeaWind     WindSample
}

// Tide is a high or low water event.
type Tide struct {
	Time   string  `json:"time"`
	Height float64 `json:"height"`
}

// RawWindow holds both decoded streams for one location, sorted by timestamp.
// Tides are keyed by calendar date (YYYY-MM-DD).
type RawWindow struct {
	Atmospheric []RawAtmosphericRecord
	Oceanic     []RawOceanicRecord
	Tides       map[string][]Tide
}

// WaveReading is a composed wave component.
type WaveReading struct {
	Value           float64 `json:"value"`
	Period          float64 `json:"period"`
	Direction       string  `json:"direction"`
	DirectionDegree int     `json:"directionDegree"`
	Energy          float64 `json:"energy"`
	Power           float64 `json:"power"`
}

// Waves groups the four named components.
type Waves struct {
	TotalHeight WaveReading `json:"totalHeight"`
	Windseas    WaveReading `json:"windseas"`
	SwellA      WaveReading `json:"swellA"`
	SwellB      WaveReading `json:"swellB"`
}

// WindReading is a composed wind vector. Gust and Type are only known for coastal wind.
type WindReading struct {
	Value           float64  `json:"value"`
	Direction       string   `json:"direction"`
	DirectionDegree int      `json:"directionDegree"`
	Gust            *float64 `json:"gust,omitempty"`
	Type            WindType `json:"type,omitempty"`
}

// Winds groups wind by origin.
type Winds struct {
	Coast *WindReading `json:"coast,omitempty"`
	Sea   *WindReading `json:"sea,omitempty"`
}

// Atmospheric holds the scalar atmospheric fields.
type Atmospheric struct {
	Pressure       float64 `json:"pressure"`
	Temperature    float64 `json:"temperature"`
	Clouds         float64 `json:"clouds"`
	Precipitation  float64 `json:"precipitation"`
	StormPotential float64 `json:"stormPotential"`
}

// ForecastHour is one hourly slot. Blocks are nil when no sample matched the slot.
type ForecastHour struct {
	Hour        string       `json:"hour"`
	Waves       *Waves       `json:"waves,omitempty"`
	Winds       *Winds       `json:"winds,omitempty"`
	Atmospheric *Atmospheric `json:"atmospheric,omitempty"`
}

// Populated reports whether the hour carries any data.
func (h ForecastHour) Populated() bool {
	return h.Waves != nil || h.Winds != nil || h.Atmospheric != nil
}

// ForecastDay lists the hours and tides of one calendar date.
type ForecastDay struct {
	Day   string         `json:"day"`
	Hours []ForecastHour `json:"hours"`
	Tides []Tide         `json:"tides"`
}

// Summary holds the window-wide aggregates.
type Summary struct {
	MaxHeight float64 `json:"maxHeight"`
	MaxEnergy float64 `json:"maxEnergy"`
	MaxPower  float64 `json:"maxPower"`
	MaxWind   float64 `json:"maxWind"`
}

// Body is the forecast aggregate of a response.
type Body struct {
	Summary
	Days           []ForecastDay `json:"days"`
	ForecastMapURL string        `json:"forecastMapUrl,omitempty"`
}

// Response is the composed forecast for one location.
type Response struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Type        ForecastType `json:"type"`
	Name        string       `json:"name"`
	Orientation int          `json:"orientation"`
	Forecast    Body         `json:"forecast"`
}

// Request selects a location and an optional date window. Zero dates pick defaults.
type Request struct {
	LocationID int64
	Start      time.Time
	End        time.Time
}
