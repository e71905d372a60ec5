package geohash

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size of the box around an indexed point.
const pointTolerance = 1e-9

// SpatialPoint wraps a point to satisfy the rtreego.Spatial interface
type SpatialPoint struct {
	rtreego.Point
	Pos int
}

// Bounds returns a rectangle representing the spatial bounds of the point
func (p SpatialPoint) Bounds() rtreego.Rect {
	return p.Point.ToRect(pointTolerance)
}

// RTreeIndex keeps points in an R-tree keyed on (lat, lon).
type RTreeIndex struct {
	tree *rtreego.Rtree
}

func NewRTreeIndex(points []Point) *RTreeIndex {
	objs := make([]rtreego.Spatial, 0, len(points))
	for pos, pt := range points {
		objs = append(objs, SpatialPoint{Point: rtreego.Point{pt.Lat, pt.Lon}, Pos: pos})
	}
	return &RTreeIndex{tree: rtreego.NewTree(2, 25, 50, objs...)}
}

// Within searches the R-tree with the bounding box of the radius.
func (r *RTreeIndex) Within(lat, lon, radiusKm float64) []int {
	box := boundingBox(lat, lon, radiusKm)
	rect, err := rtreego.NewRect(
		rtreego.Point{box.MinLat - pointTolerance, box.MinLon - pointTolerance},
		[]float64{
			math.Max(box.MaxLat-box.MinLat, 0) + 2*pointTolerance,
			math.Max(box.MaxLon-box.MinLon, 0) + 2*pointTolerance,
		},
	)
	if err != nil {
		return nil
	}

	hits := r.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.(SpatialPoint).Pos)
	}
	sort.Ints(out)
	return out
}
