package location

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
)

// DefaultRangeKm is used by callers that omit a search radius.
const DefaultRangeKm = 50.0

// Index is an immutable arena of locations keyed by id. Relations are id
// references only, so it is safe for concurrent readers once built.
type Index struct {
	nodes    map[int64]Location
	roots    []int64
	spots    []int64
	folded   map[int64]string
	rejected []Rejection
}

type chainState uint8

const (
	stateUnknown chainState = iota
	stateValid
	stateInvalid
)

// NewIndex builds the hierarchy from a flat list of records. Records that
// would break the tree (unknown kind, missing parent, cycles, children of
// spots) are left out and reported by Rejected.
func NewIndex(records []Location) *Index {
	idx := &Index{
		nodes:  make(map[int64]Location, len(records)),
		folded: make(map[int64]string, len(records)),
	}

	candidates := make(map[int64]Location, len(records))
	for _, rec := range records {
		switch {
		case rec.ID <= 0:
			idx.reject(rec.ID, "id must be positive")
			continue
		case !rec.Kind.Valid():
			idx.reject(rec.ID, fmt.Sprintf("unknown kind %q", rec.Kind))
			continue
		case rec.Kind == RootKind && rec.ParentID != 0:
			idx.reject(rec.ID, "root kind cannot have a parent")
			continue
		case rec.Kind != RootKind && rec.ParentID == 0:
			idx.reject(rec.ID, "non-root location without parent")
			continue
		case rec.ParentID == rec.ID:
			idx.reject(rec.ID, "location is its own parent")
			continue
		}
		if _, dup := candidates[rec.ID]; dup {
			idx.reject(rec.ID, "duplicate id")
			continue
		}
		loc := rec.clone()
		loc.ChildIDs = nil
		if !loc.IsSpot() {
			loc.Coordinates = nil
		}
		candidates[loc.ID] = loc
	}

	states := make(map[int64]chainState, len(candidates))
	for id := range candidates {
		resolveChain(id, candidates, states)
	}

	for id, loc := range candidates {
		if states[id] != stateValid {
			idx.reject(id, "parent chain does not reach a root")
			continue
		}
		idx.nodes[id] = loc
		idx.folded[id] = foldName(loc.Name)
	}

	for id, loc := range idx.nodes {
		if loc.ParentID == 0 {
			idx.roots = append(idx.roots, id)
			continue
		}
		parent := idx.nodes[loc.ParentID]
		parent.ChildIDs = append(parent.ChildIDs, id)
		idx.nodes[loc.ParentID] = parent
		if loc.IsSpot() && loc.Coordinates != nil && !loc.Inactive {
			idx.spots = append(idx.spots, id)
		}
	}
	for id, loc := range idx.nodes {
		if len(loc.ChildIDs) > 1 {
			idx.sortByName(loc.ChildIDs)
			idx.nodes[id] = loc
		}
	}
	idx.sortByName(idx.roots)
	sort.Slice(idx.spots, func(i, j int) bool { return idx.spots[i] < idx.spots[j] })
	sort.Slice(idx.rejected, func(i, j int) bool { return idx.rejected[i].ID < idx.rejected[j].ID })

	return idx
}

// resolveChain walks parent references iteratively and marks every node on
// the walked path valid or invalid.
func resolveChain(start int64, nodes map[int64]Location, states map[int64]chainState) {
	var (
		path   []int64
		onPath = make(map[int64]bool)
		result = stateInvalid
	)
	cur := start
	for {
		if st := states[cur]; st != stateUnknown {
			result = st
			break
		}
		if onPath[cur] {
			break
		}
		path = append(path, cur)
		onPath[cur] = true

		node := nodes[cur]
		if node.ParentID == 0 {
			result = stateValid
			break
		}
		parent, ok := nodes[node.ParentID]
		if !ok || parent.IsSpot() {
			break
		}
		cur = parent.ID
	}
	for _, id := range path {
		states[id] = result
	}
}

func (idx *Index) reject(id int64, reason string) {
	idx.rejected = append(idx.rejected, Rejection{ID: id, Reason: reason})
}

func (idx *Index) sortByName(ids []int64) {
	sort.Slice(ids, func(i, j int) bool {
		return idx.lessByName(ids[i], ids[j])
	})
}

func (idx *Index) lessByName(a, b int64) bool {
	fa, fb := idx.folded[a], idx.folded[b]
	if fa != fb {
		return fa < fb
	}
	na, nb := idx.nodes[a].Name, idx.nodes[b].Name
	if na != nb {
		return na < nb
	}
	return a < b
}

// Size returns the number of indexed locations.
func (idx *Index) Size() int {
	return len(idx.nodes)
}

// Rejected lists the records excluded from the tree, ordered by id.
func (idx *Index) Rejected() []Rejection {
	return append([]Rejection(nil), idx.rejected...)
}

// Lookup resolves a location by id.
func (idx *Index) Lookup(id int64) (Location, bool) {
	loc, ok := idx.nodes[id]
	if !ok {
		return Location{}, false
	}
	return loc.clone(), true
}

// Tree returns the full hierarchy, roots first, children ordered by name then id.
func (idx *Index) Tree() []TreeNode {
	out := make([]TreeNode, 0, len(idx.roots))
	for _, id := range idx.roots {
		out = append(out, idx.treeNode(id))
	}
	return out
}

func (idx *Index) treeNode(id int64) TreeNode {
	loc := idx.nodes[id]
	node := TreeNode{
		ID:       loc.ID,
		Kind:     loc.Kind,
		Name:     loc.Name,
		ParentID: loc.ParentID,
		CoastID:  loc.CoastID,
		Children: make([]TreeNode, 0, len(loc.ChildIDs)),
	}
	if loc.Coordinates != nil {
		c := *loc.Coordinates
		node.Coordinates = &c
	}
	for _, child := range loc.ChildIDs {
		node.Children = append(node.Children, idx.treeNode(child))
	}
	return node
}

// FindNearest returns active spots within rangeKm of the point, nearest
// first, ties broken by id.
func (idx *Index) FindNearest(q NearestQuery) ([]Match, error) {
	if err := validateNearest(q); err != nil {
		return nil, err
	}
	box := newBoundingBox(q.Latitude, q.Longitude, q.RangeKm)
	matches := make([]Match, 0)
	for _, id := range idx.spots {
		loc := idx.nodes[id]
		c := loc.Coordinates
		if !box.contains(c.Latitude, c.Longitude) {
			continue
		}
		d := HaversineKm(q.Latitude, q.Longitude, c.Latitude, c.Longitude)
		if d > q.RangeKm {
			continue
		}
		matches = append(matches, Match{Location: loc.clone(), DistanceKm: d})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Location.ID < matches[j].Location.ID
	})
	return matches, nil
}

func validateNearest(q NearestQuery) error {
	switch {
	case math.IsNaN(q.RangeKm) || math.IsInf(q.RangeKm, 0) || q.RangeKm <= 0:
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "range must be a positive number of kilometres", nil)
	case math.IsNaN(q.Latitude) || q.Latitude < -90 || q.Latitude > 90:
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "lat must be within [-90, 90]", nil)
	case math.IsNaN(q.Longitude) || q.Longitude < -180 || q.Longitude > 180:
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "long must be within [-180, 180]", nil)
	}
	return nil
}

type searchRank int

const (
	rankExact searchRank = iota
	rankPrefix
	rankSubstring
)

// SearchByName returns locations whose name contains query, ignoring case
// and accents. Exact matches rank first, then prefixes, then substrings.
// Inactive spots are never returned.
func (idx *Index) SearchByName(query string) ([]Location, error) {
	hits, err := idx.rankedHits(query)
	if err != nil {
		return nil, err
	}
	out := make([]Location, 0, len(hits))
	for _, h := range hits {
		out = append(out, idx.nodes[h.id].clone())
	}
	return out, nil
}

type nameHit struct {
	id   int64
	rank searchRank
}

func (idx *Index) rankedHits(query string) ([]nameHit, error) {
	needle := foldName(query)
	if needle == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "name cannot be empty", nil)
	}

	hits := make([]nameHit, 0)
	for id, name := range idx.folded {
		if idx.nodes[id].Inactive {
			continue
		}
		switch {
		case name == needle:
			hits = append(hits, nameHit{id: id, rank: rankExact})
		case strings.HasPrefix(name, needle):
			hits = append(hits, nameHit{id: id, rank: rankPrefix})
		case strings.Contains(name, needle):
			hits = append(hits, nameHit{id: id, rank: rankSubstring})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return idx.lessByName(hits[i].id, hits[j].id)
	})
	return hits, nil
}

// MaxPathDepth bounds a hierarchy path: country, state, city and an optional spot.
const MaxPathDepth = 4

// ResolvePath walks the hierarchy below the roots, one folded name per level
// starting at the country. Hyphens and underscores in a segment count as spaces.
// Sibling name clashes resolve to the first child in tree order.
func (idx *Index) ResolvePath(segments []string) (Location, error) {
	if len(segments) == 0 || len(segments) > MaxPathDepth {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("path must have between 1 and %d segments", MaxPathDepth), nil)
	}
	keys := make([]string, len(segments))
	for i, seg := range segments {
		if keys[i] = pathKey(seg); keys[i] == "" {
			return Location{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "path segments cannot be empty", nil)
		}
	}

	level := make([]int64, 0)
	for _, root := range idx.roots {
		level = append(level, idx.nodes[root].ChildIDs...)
	}
	idx.sortByName(level)

	var found Location
	for depth, key := range keys {
		id, ok := idx.childNamed(level, key)
		if !ok {
			return Location{}, apperrors.Wrap(apperrors.CodeLocationNotFound, fmt.Sprintf("no location at %q", strings.Join(segments[:depth+1], "/")), nil)
		}
		found = idx.nodes[id]
		level = found.ChildIDs
	}
	return found.clone(), nil
}

func (idx *Index) childNamed(ids []int64, key string) (int64, bool) {
	for _, id := range ids {
		if idx.nodes[id].Inactive {
			continue
		}
		if pathKey(idx.folded[id]) == key {
			return id, true
		}
	}
	return 0, false
}

// BestMatch resolves a free-text name to one location: the best ranked
// SearchByName hit, preferring spots over aggregates of the same rank.
func (idx *Index) BestMatch(query string) (Location, error) {
	hits, err := idx.rankedHits(query)
	if err != nil {
		return Location{}, err
	}
	if len(hits) == 0 {
		return Location{}, apperrors.Wrap(apperrors.CodeLocationNotFound, fmt.Sprintf("no location named %q", query), nil)
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.rank != best.rank {
			break
		}
		if idx.nodes[h.id].IsSpot() && !idx.nodes[best.id].IsSpot() {
			best = h
			break
		}
	}
	return idx.nodes[best.id].clone(), nil
}
