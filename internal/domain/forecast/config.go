package forecast

import "time"

// Config holds runtime knobs for forecast composition.
type Config struct {
	DefaultDays      int
	MaxDays          int
	FetchTimeout     time.Duration
	Tolerance        time.Duration
	DefaultTolerance time.Duration
	MapBaseURL       string
	CacheTTL         time.Duration
	Keys             KeyLayout
}

// KeyLayout holds fmt patterns turning a source id into blob keys.
type KeyLayout struct {
	Atmospheric string
	Oceanic     string
	Beach       string
}

// DefaultKeyLayout mirrors the bucket layout written by the forecast model.
func DefaultKeyLayout() KeyLayout {
	return KeyLayout{
		Atmospheric: "atmos/atmos%dpro.json",
		Oceanic:     "oceanos/oceano%d.json",
		Beach:       "oceanos/praia%d.json",
	}
}

func (c Config) withDefaults() Config {
	if c.DefaultDays <= 0 {
		c.DefaultDays = 15
	}
	if c.MaxDays <= 0 {
		c.MaxDays = 16
	}
	if c.DefaultTolerance <= 0 {
		c.DefaultTolerance = 90 * time.Minute
	}
	def := DefaultKeyLayout()
	if c.Keys.Atmospheric == "" {
		c.Keys.Atmospheric = def.Atmospheric
	}
	if c.Keys.Oceanic == "" {
		c.Keys.Oceanic = def.Oceanic
	}
	if c.Keys.Beach == "" {
		c.Keys.Beach = def.Beach
	}
	return c
}
