package forecast

// Positions of each variable inside a day entry of the raw encoding.
// Values marked as scaled are stored multiplied by scaleFactor.
const (
	oceanTotalHeight    = 0 // scaled
	oceanTotalPeriod    = 1 // scaled
	oceanTotalDirection = 2
	oceanTotalEnergy    = 3
	oceanTotalPower     = 4 // scaled
	oceanWindseaOffset  = 5
	oceanSwellAOffset   = 10
	oceanSwellBOffset   = 15
	oceanSeaWind        = 20
	oceanSeaWindDir     = 21
	oceanTides          = 23

	// offsets within a wave train block
	waveHeight    = 0
	wavePeriod    = 1
	waveDirection = 2
	waveEnergy    = 3
	wavePower     = 4

	oceanRequiredVars = oceanSeaWindDir + 1

	beachTotalHeight   = 0
	beachWindseaHeight = 1
	beachSwellAHeight  = 2
	beachSwellBHeight  = 3

	atmosWind           = 0
	atmosWindDirection  = 1
	atmosWindGust       = 2
	atmosStormPotential = 3
	atmosPressure       = 4
	atmosTemperature    = 5
	atmosClouds         = 6
	atmosPrecipitation  = 7

	atmosRequiredVars = atmosPrecipitation + 1

	scaleFactor = 10.0

	// tide groups are HHMMhd
	tideGroupLen = 6
)
