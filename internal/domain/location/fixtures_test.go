package location

func intPtr(v int) *int { return &v }

func coords(lat, lon float64) *Coordinates {
	return &Coordinates{Latitude: lat, Longitude: lon}
}

// northOf returns a point km kilometres due north of (lat, lon).
func northOf(lat, lon, km float64) *Coordinates {
	return coords(lat+km/kmPerDegree, lon)
}

func brazilFixture() []Location {
	return []Location{
		{ID: 1, Name: "América do Sul", Kind: KindContinent},
		{ID: 2, Name: "Brasil", Kind: KindCountry, ParentID: 1},
		{ID: 3, Name: "Rio de Janeiro", Kind: KindState, ParentID: 2},
		{ID: 4, Name: "Saquarema", Kind: KindCity, ParentID: 3, CoastID: 40},
		{ID: 5, Name: "Rio de Janeiro", Kind: KindCity, ParentID: 3, CoastID: 50},
		{ID: 10, Name: "Point de Itaúna", Kind: KindSpot, ParentID: 4, CoastID: 40, Coordinates: coords(-22.934, -42.483), Orientation: intPtr(160)},
		{ID: 11, Name: "Saquarema Norte", Kind: KindSpot, ParentID: 4, CoastID: 40, Coordinates: coords(-22.92, -42.50)},
		{ID: 12, Name: "Arpoador", Kind: KindSpot, ParentID: 5, CoastID: 50, Coordinates: coords(-22.988, -43.19), Orientation: intPtr(180)},
		{ID: 13, Name: "Praia de Saquarema", Kind: KindSpot, ParentID: 4, CoastID: 40, Coordinates: coords(-22.93, -42.49), Inactive: true},
	}
}
