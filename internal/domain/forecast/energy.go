package forecast

import "math"

const (
	seawaterDensity = 1025.0 // kg/m³
	gravity         = 9.81   // m/s²
)

// EnergyFunc derives a scalar from significant wave height (m) and period (s).
type EnergyFunc func(height, period float64) float64

// EnergyModel is the pluggable wave energy model used by the reducer.
type EnergyModel struct {
	Energy EnergyFunc
	Power  EnergyFunc
}

// DefaultEnergyModel uses deep-water linear wave theory.
func DefaultEnergyModel() EnergyModel {
	return EnergyModel{Energy: WaveEnergyKJ, Power: WavePowerKW}
}

func (m EnergyModel) withDefaults() EnergyModel {
	def := DefaultEnergyModel()
	if m.Energy == nil {
		m.Energy = def.Energy
	}
	if m.Power == nil {
		m.Power = def.Power
	}
	return m
}

// WaveEnergyKJ is the energy carried by one wavelength per metre of crest, in kJ:
// ρ g² H² T² / (16π).
func WaveEnergyKJ(height, period float64) float64 {
	if height <= 0 || period <= 0 {
		return 0
	}
	return seawaterDensity * gravity * gravity * height * height * period * period / (16 * math.Pi) / 1000
}

// WavePowerKW is the energy flux per metre of crest, in kW/m: ρ g² H² T / (64π).
func WavePowerKW(height, period float64) float64 {
	if height <= 0 || period <= 0 {
		return 0
	}
	return seawaterDensity * gravity * gravity * height * height * period / (64 * math.Pi) / 1000
}
