package location

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
)

func TestTreeOrdersChildrenByName(t *testing.T) {
	idx := NewIndex(brazilFixture())

	tree := idx.Tree()
	require.Len(t, tree, 1)
	require.Equal(t, "América do Sul", tree[0].Name)

	state := tree[0].Children[0].Children[0]
	require.Equal(t, "Rio de Janeiro", state.Name)
	require.Len(t, state.Children, 2)
	assert.Equal(t, "Rio de Janeiro", state.Children[0].Name)
	assert.Equal(t, "Saquarema", state.Children[1].Name)

	saquarema := state.Children[1]
	names := make([]string, 0, len(saquarema.Children))
	for _, c := range saquarema.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Point de Itaúna", "Praia de Saquarema", "Saquarema Norte"}, names)
	assert.Empty(t, idx.Rejected())
}

func TestNewIndexRejectsBrokenChains(t *testing.T) {
	records := append(brazilFixture(),
		Location{ID: 20, Name: "Loop A", Kind: KindCity, ParentID: 21},
		Location{ID: 21, Name: "Loop B", Kind: KindCity, ParentID: 20},
		Location{ID: 22, Name: "Below loop", Kind: KindSpot, ParentID: 21, Coordinates: coords(0, 0)},
		Location{ID: 23, Name: "Orphan", Kind: KindSpot, ParentID: 999, Coordinates: coords(0, 0)},
		Location{ID: 24, Name: "Under a spot", Kind: KindSpot, ParentID: 12, Coordinates: coords(0, 0)},
		Location{ID: 25, Name: "Floating", Kind: KindCity},
		Location{ID: 26, Name: "Bad kind", Kind: "beach", ParentID: 4},
		Location{ID: 2, Name: "Duplicate", Kind: KindCountry, ParentID: 1},
	)

	idx := NewIndex(records)

	rejected := map[int64]bool{}
	for _, r := range idx.Rejected() {
		rejected[r.ID] = true
	}
	for _, id := range []int64{20, 21, 22, 23, 24, 25, 26, 2} {
		assert.True(t, rejected[id], "expected %d to be rejected", id)
	}
	brasil, ok := idx.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "Brasil", brasil.Name)

	// Every indexed node reaches a root within Size() hops.
	for id := range idx.nodes {
		hops := 0
		cur, _ := idx.Lookup(id)
		for cur.ParentID != 0 {
			hops++
			require.LessOrEqual(t, hops, idx.Size())
			cur, ok = idx.Lookup(cur.ParentID)
			require.True(t, ok)
		}
		assert.Equal(t, RootKind, cur.Kind)
	}
}

func TestNewIndexDropsCoordinatesOnAggregates(t *testing.T) {
	idx := NewIndex([]Location{
		{ID: 1, Name: "Root", Kind: KindContinent, Coordinates: coords(1, 1)},
		{ID: 2, Name: "Spot", Kind: KindSpot, ParentID: 1, Coordinates: coords(1, 1)},
	})

	root, _ := idx.Lookup(1)
	spot, _ := idx.Lookup(2)
	assert.Nil(t, root.Coordinates)
	assert.NotNil(t, spot.Coordinates)
	assert.Equal(t, []int64{2}, root.ChildIDs)
}

func TestFindNearestScenario(t *testing.T) {
	const lat, lon = -22.9, -43.2
	idx := NewIndex([]Location{
		{ID: 1, Name: "Root", Kind: KindContinent},
		{ID: 30, Name: "Far", Kind: KindSpot, ParentID: 1, Coordinates: northOf(lat, lon, 80)},
		{ID: 31, Name: "Mid", Kind: KindSpot, ParentID: 1, Coordinates: northOf(lat, lon, 40)},
		{ID: 32, Name: "Near", Kind: KindSpot, ParentID: 1, Coordinates: northOf(lat, lon, 10)},
	})

	got, err := idx.FindNearest(NearestQuery{Latitude: lat, Longitude: lon, RangeKm: 50})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(32), got[0].Location.ID)
	assert.Equal(t, int64(31), got[1].Location.ID)
	assert.InDelta(t, 10, got[0].DistanceKm, 0.01)
	assert.InDelta(t, 40, got[1].DistanceKm, 0.01)
}

func TestFindNearestTiesBrokenByID(t *testing.T) {
	idx := NewIndex([]Location{
		{ID: 1, Name: "Root", Kind: KindContinent},
		{ID: 9, Name: "B", Kind: KindSpot, ParentID: 1, Coordinates: coords(0, 0.1)},
		{ID: 7, Name: "A", Kind: KindSpot, ParentID: 1, Coordinates: coords(0, 0.1)},
	})

	got, err := idx.FindNearest(NearestQuery{Latitude: 0, Longitude: 0, RangeKm: 20})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].Location.ID)
	assert.Equal(t, int64(9), got[1].Location.ID)
}

func TestFindNearestSkipsInactiveSpots(t *testing.T) {
	idx := NewIndex(brazilFixture())

	got, err := idx.FindNearest(NearestQuery{Latitude: -22.93, Longitude: -42.49, RangeKm: 5})
	require.NoError(t, err)
	for _, m := range got {
		assert.NotEqual(t, int64(13), m.Location.ID)
	}
	require.NotEmpty(t, got)
}

func TestFindNearestInvalidArguments(t *testing.T) {
	idx := NewIndex(brazilFixture())
	cases := []NearestQuery{
		{Latitude: 0, Longitude: 0, RangeKm: 0},
		{Latitude: 0, Longitude: 0, RangeKm: -5},
		{Latitude: 91, Longitude: 0, RangeKm: 10},
		{Latitude: 0, Longitude: -181, RangeKm: 10},
	}
	for _, q := range cases {
		_, err := idx.FindNearest(q)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument), "query %+v", q)
	}
}

func TestFindNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := []Location{{ID: 1, Name: "Root", Kind: KindContinent}}
	for i := int64(2); i < 400; i++ {
		records = append(records, Location{
			ID:          i,
			Name:        "spot",
			Kind:        KindSpot,
			ParentID:    1,
			Coordinates: coords(rng.Float64()*170-85, rng.Float64()*360-180),
		})
	}
	idx := NewIndex(records)

	for trial := 0; trial < 50; trial++ {
		q := NearestQuery{
			Latitude:  rng.Float64()*170 - 85,
			Longitude: rng.Float64()*360 - 180,
			RangeKm:   100 + rng.Float64()*3000,
		}
		got, err := idx.FindNearest(q)
		require.NoError(t, err)

		var want []int64
		for _, r := range records[1:] {
			if HaversineKm(q.Latitude, q.Longitude, r.Coordinates.Latitude, r.Coordinates.Longitude) <= q.RangeKm {
				want = append(want, r.ID)
			}
		}
		gotIDs := make([]int64, 0, len(got))
		for i, m := range got {
			assert.LessOrEqual(t, m.DistanceKm, q.RangeKm)
			if i > 0 {
				assert.LessOrEqual(t, got[i-1].DistanceKm, m.DistanceKm)
			}
			gotIDs = append(gotIDs, m.Location.ID)
		}
		sort.Slice(gotIDs, func(i, j int) bool { return gotIDs[i] < gotIDs[j] })
		assert.Equal(t, len(want), len(gotIDs))
		if len(want) > 0 {
			assert.Equal(t, want, gotIDs)
		}
	}
}

func TestSearchByNameRanking(t *testing.T) {
	idx := NewIndex(brazilFixture())

	got, err := idx.SearchByName("saquarema")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Saquarema", got[0].Name)
	assert.Equal(t, "Saquarema Norte", got[1].Name)
}

func TestSearchByNameSubstringAndAccents(t *testing.T) {
	idx := NewIndex(brazilFixture())

	got, err := idx.SearchByName("ITAUNA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)

	got, err = idx.SearchByName("janeiro")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(5), got[1].ID)

	got, err = idx.SearchByName("pipeline")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchByNameRejectsBlankQuery(t *testing.T) {
	idx := NewIndex(brazilFixture())

	_, err := idx.SearchByName("   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
}

func TestLookupReturnsCopies(t *testing.T) {
	idx := NewIndex(brazilFixture())

	loc, ok := idx.Lookup(10)
	require.True(t, ok)
	loc.Coordinates.Latitude = 0
	*loc.Orientation = 0

	again, _ := idx.Lookup(10)
	assert.Equal(t, -22.934, again.Coordinates.Latitude)
	assert.Equal(t, 160, *again.Orientation)
}

func TestResolvePathWalksFoldedNames(t *testing.T) {
	idx := NewIndex(brazilFixture())

	cases := map[string]struct {
		segments []string
		want     int64
	}{
		"state":            {[]string{"brasil", "rio-de-janeiro"}, 3},
		"city under state": {[]string{"Brasil", "Rio de Janeiro", "rio_de_janeiro"}, 5},
		"spot":             {[]string{"BRASIL", "rio de janeiro", "Saquarema", "point-de-itauna"}, 10},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			loc, err := idx.ResolvePath(tc.segments)
			require.NoError(t, err)
			assert.Equal(t, tc.want, loc.ID)
		})
	}
}

func TestResolvePathFailures(t *testing.T) {
	idx := NewIndex(brazilFixture())

	_, err := idx.ResolvePath([]string{"brasil", "sao paulo"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound))

	_, err = idx.ResolvePath([]string{"brasil", "rio de janeiro", "saquarema", "praia de saquarema"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound), "inactive spots are not addressable")

	_, err = idx.ResolvePath([]string{"america do sul", "brasil"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound), "paths start below the continent")

	for _, segments := range [][]string{nil, {"brasil", " "}, {"a", "b", "c", "d", "e"}} {
		_, err = idx.ResolvePath(segments)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument), "%q", segments)
	}
}

func TestBestMatchPrefersSpotsWithinRank(t *testing.T) {
	records := append(brazilFixture(), Location{ID: 14, Name: "Saquarema", Kind: KindSpot, ParentID: 4, CoastID: 40, Coordinates: coords(-22.93, -42.48)})
	idx := NewIndex(records)

	loc, err := idx.BestMatch("saquarema")
	require.NoError(t, err)
	assert.Equal(t, int64(14), loc.ID)

	loc, err = idx.BestMatch("itaúna")
	require.NoError(t, err)
	assert.Equal(t, int64(10), loc.ID)

	loc, err = NewIndex(brazilFixture()).BestMatch("saquarema")
	require.NoError(t, err)
	assert.Equal(t, int64(4), loc.ID, "an exact aggregate beats a prefix spot")

	_, err = idx.BestMatch("pipeline")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeLocationNotFound))
	_, err = idx.BestMatch("")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))
}
