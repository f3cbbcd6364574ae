package location

// Kind enumerates the levels of the location hierarchy.
type Kind string

const (
	// KindContinent is the only root kind.
	KindContinent Kind = "continent"
	KindCountry   Kind = "country"
	KindState     Kind = "state"
	KindCity      Kind = "city"
	// KindSpot is a leaf with coordinates where forecasts are served.
	KindSpot Kind = "spot"
)

// RootKind is the kind every parentless location must have.
const RootKind = KindContinent

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindContinent, KindCountry, KindState, KindCity, KindSpot:
		return true
	}
	return false
}

// Coordinates are WGS84 degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"long" yaml:"long"`
}

// Location is one node of the hierarchy. ParentID is a weak reference (0 for roots);
// ChildIDs is populated by the index.
type Location struct {
	ID           int64        `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Kind         Kind         `json:"kind" yaml:"kind"`
	ParentID     int64        `json:"parentId,omitempty" yaml:"parentId"`
	CoastID      int64        `json:"coastId,omitempty" yaml:"coastId"`
	Coordinates  *Coordinates `json:"coordinates,omitempty" yaml:"coordinates"`
	Orientation  *int         `json:"orientation,omitempty" yaml:"orientation"`
	Inactive     bool         `json:"inactive,omitempty" yaml:"inactive"`
	MapName      string       `json:"-" yaml:"mapName"`
	MapUpdatedAt string       `json:"-" yaml:"mapUpdatedAt"`
	ChildIDs     []int64      `json:"childIds,omitempty" yaml:"-"`
}

// IsSpot reports whether the location is a forecastable leaf.
func (l Location) IsSpot() bool {
	return l.Kind == KindSpot
}

// SourceID is the coastal model cell keying the raw forecast blobs.
func (l Location) SourceID() int64 {
	if l.CoastID > 0 {
		return l.CoastID
	}
	return l.ID
}

func (l Location) clone() Location {
	out := l
	if l.Coordinates != nil {
		c := *l.Coordinates
		out.Coordinates = &c
	}
	if l.Orientation != nil {
		o := *l.Orientation
		out.Orientation = &o
	}
	if l.ChildIDs != nil {
		out.ChildIDs = append([]int64(nil), l.ChildIDs...)
	}
	return out
}

// TreeNode is the nested representation served by the listing endpoint.
type TreeNode struct {
	ID          int64        `json:"id"`
	Kind        Kind         `json:"kind"`
	Name        string       `json:"name"`
	ParentID    int64        `json:"parentId,omitempty"`
	CoastID     int64        `json:"coastId,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Children    []TreeNode   `json:"children"`
}

// Match pairs a spot with its great-circle distance from the query point.
type Match struct {
	Location   Location `json:"location"`
	DistanceKm float64  `json:"distanceKm"`
}

// NearestQuery describes a range search around a point.
type NearestQuery struct {
	Latitude  float64
	Longitude float64
	RangeKm   float64
}

// Rejection records a location left out of the index and why.
type Rejection struct {
	ID     int64
	Reason string
}
