package forecast

import "math"

// Reduce computes the window aggregates. Hours without waves or winds do not
// contribute; an empty window yields zeros.
func Reduce(days []ForecastDay, model EnergyModel) Summary {
	model = model.withDefaults()
	var s Summary
	for _, day := range days {
		for _, h := range day.Hours {
			if !h.Populated() {
				continue
			}
			if h.Waves != nil {
				total := h.Waves.TotalHeight
				s.MaxHeight = larger(s.MaxHeight, total.Value)
				s.MaxEnergy = larger(s.MaxEnergy, model.Energy(total.Value, total.Period))
				s.MaxPower = larger(s.MaxPower, model.Power(total.Value, total.Period))
			}
			if h.Winds != nil {
				if h.Winds.Coast != nil {
					s.MaxWind = larger(s.MaxWind, h.Winds.Coast.Value)
				}
				if h.Winds.Sea != nil {
					s.MaxWind = larger(s.MaxWind, h.Winds.Sea.Value)
				}
			}
		}
	}
	return s
}

// larger ignores non-finite candidates so a misbehaving energy model cannot poison the summary.
func larger(cur, candidate float64) float64 {
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) {
		return cur
	}
	return math.Max(cur, candidate)
}
