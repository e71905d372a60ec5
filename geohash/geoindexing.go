package geohash

import (
	"fmt"
	"sort"
)

type GeoIndexingTechnique string

const (
	GeohashingTechnique GeoIndexingTechnique = "geohash"
	RTreeTechnique      GeoIndexingTechnique = "rtree"
	QuadtreeTechnique   GeoIndexingTechnique = "quadtree"
	ScanTechnique       GeoIndexingTechnique = "scan"
)

// DefaultTechnique is used when no technique is configured.
const DefaultTechnique = RTreeTechnique

// Point is a location in degrees.
type Point struct {
	Lat, Lon float64
}

// Bounds is a lat/lon rectangle in degrees.
type Bounds struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

func (b Bounds) contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

func (b Bounds) intersects(o Bounds) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat &&
		b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon
}

// Index narrows a point set to the positions that may lie within a radius of
// a center. Results are a superset of the exact answer, in ascending order;
// callers refine them with Haversine.
type Index interface {
	Within(lat, lon, radiusKm float64) []int
}

// BuildIndex indexes points with the given technique. Positions returned by
// the index are offsets into points. Points outside the valid lat/lon range
// are not indexed and are returned by every query; a query centered outside
// that range returns every position.
func BuildIndex(technique GeoIndexingTechnique, points []Point) (Index, error) {
	if technique == "" {
		technique = DefaultTechnique
	}
	if technique == ScanTechnique {
		return scanIndex(len(points)), nil
	}

	var valid []Point
	ri := &remapIndex{size: len(points)}
	for pos, pt := range points {
		if world.contains(pt) {
			valid = append(valid, pt)
			ri.posOf = append(ri.posOf, pos)
		} else {
			ri.outside = append(ri.outside, pos)
		}
	}

	switch technique {
	case GeohashingTechnique:
		ri.inner = NewGeohashIndex(valid)
	case RTreeTechnique:
		ri.inner = NewRTreeIndex(valid)
	case QuadtreeTechnique:
		ri.inner = NewQuadtreeIndex(valid)
	default:
		return nil, fmt.Errorf("unsupported geo-indexing technique %q", technique)
	}
	return ri, nil
}

var world = Bounds{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

// remapIndex translates positions of an index built over the in-range
// subset back to positions in the full point set.
type remapIndex struct {
	inner   Index
	posOf   []int
	outside []int
	size    int
}

func (r *remapIndex) Within(lat, lon, radiusKm float64) []int {
	if !world.contains(Point{Lat: lat, Lon: lon}) {
		return allPositions(r.size)
	}
	hits := r.inner.Within(lat, lon, radiusKm)
	out := make([]int, 0, len(hits)+len(r.outside))
	for _, i := range hits {
		out = append(out, r.posOf[i])
	}
	out = append(out, r.outside...)
	sort.Ints(out)
	return out
}

// scanIndex returns every position.
type scanIndex int

func (n scanIndex) Within(_, _, _ float64) []int {
	return allPositions(int(n))
}

func allPositions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// GeohashIndex buckets points by geohash cell at every precision up to
// MaxPrecision, and answers a query from the center cell and its neighbors.
type GeohashIndex struct {
	cells [MaxPrecision + 1]map[string][]int
	size  int
}

func NewGeohashIndex(points []Point) *GeohashIndex {
	idx := &GeohashIndex{size: len(points)}
	for p := uint(1); p <= MaxPrecision; p++ {
		idx.cells[p] = make(map[string][]int)
	}
	for pos, pt := range points {
		hash := Encode(pt.Lat, pt.Lon, MaxPrecision)
		for p := uint(1); p <= MaxPrecision; p++ {
			idx.cells[p][hash[:p]] = append(idx.cells[p][hash[:p]], pos)
		}
	}
	return idx
}

func (g *GeohashIndex) Within(lat, lon, radiusKm float64) []int {
	box := boundingBox(lat, lon, radiusKm)
	if box.MinLon == -180 && box.MaxLon == 180 {
		return allPositions(g.size)
	}
	precision, ok := PrecisionForRadius(lat, radiusKm)
	if !ok {
		return allPositions(g.size)
	}

	center := Encode(lat, lon, precision)
	hashes := append(GetNeighbors(center), center)

	seen := make(map[int]struct{})
	var out []int
	for _, hash := range hashes {
		for _, pos := range g.cells[precision][hash] {
			if _, dup := seen[pos]; dup {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	sort.Ints(out)
	return out
}
