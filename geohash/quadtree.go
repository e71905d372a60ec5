package geohash

import "sort"

// maxQuadtreeDepth stops subdivision for clusters of identical points.
const maxQuadtreeDepth = 32

type quadEntry struct {
	Point
	Pos int
}

// QuadtreeNode represents a node in the quadtree
type QuadtreeNode struct {
	Bounds   Bounds
	Points   []quadEntry
	Children [4]*QuadtreeNode
}

// Quadtree represents the quadtree structure
type Quadtree struct {
	Root *QuadtreeNode
}

// InitializeQuadtree initializes a new Quadtree with given bounds
func InitializeQuadtree(bounds Bounds) *Quadtree {
	return &Quadtree{
		Root: &QuadtreeNode{Bounds: bounds},
	}
}

// NewQuadtreeIndex builds a quadtree over the whole globe.
func NewQuadtreeIndex(points []Point) *Quadtree {
	qt := InitializeQuadtree(world)
	for pos, pt := range points {
		qt.Insert(pt, pos)
	}
	return qt
}

// Insert adds a point to the Quadtree
func (qt *Quadtree) Insert(point Point, pos int) {
	qt.Root.insert(quadEntry{Point: point, Pos: pos}, 0)
}

// insert adds a point to a QuadtreeNode, creating children nodes if necessary
func (node *QuadtreeNode) insert(e quadEntry, depth int) {
	if !node.Bounds.contains(e.Point) {
		return
	}
	if node.Children[0] == nil && (len(node.Points) < 4 || depth >= maxQuadtreeDepth) {
		node.Points = append(node.Points, e)
		return
	}
	if node.Children[0] == nil {
		node.subdivide()
	}
	for i := 0; i < 4; i++ {
		if node.Children[i].Bounds.contains(e.Point) {
			node.Children[i].insert(e, depth+1)
			return
		}
	}
}

// subdivide splits the node into four child nodes
func (node *QuadtreeNode) subdivide() {
	b := node.Bounds
	midLat := (b.MinLat + b.MaxLat) / 2
	midLon := (b.MinLon + b.MaxLon) / 2
	node.Children[0] = &QuadtreeNode{Bounds: Bounds{b.MinLat, b.MinLon, midLat, midLon}}
	node.Children[1] = &QuadtreeNode{Bounds: Bounds{midLat, b.MinLon, b.MaxLat, midLon}}
	node.Children[2] = &QuadtreeNode{Bounds: Bounds{b.MinLat, midLon, midLat, b.MaxLon}}
	node.Children[3] = &QuadtreeNode{Bounds: Bounds{midLat, midLon, b.MaxLat, b.MaxLon}}
}

// Within returns the positions of points inside the radius bounding box.
func (qt *Quadtree) Within(lat, lon, radiusKm float64) []int {
	out := qt.Root.search(boundingBox(lat, lon, radiusKm))
	sort.Ints(out)
	return out
}

// search finds points within a box in a QuadtreeNode
func (node *QuadtreeNode) search(box Bounds) []int {
	if !node.Bounds.intersects(box) {
		return nil
	}
	var result []int
	for _, e := range node.Points {
		if box.contains(e.Point) {
			result = append(result, e.Pos)
		}
	}
	if node.Children[0] != nil {
		for i := 0; i < 4; i++ {
			result = append(result, node.Children[i].search(box)...)
		}
	}
	return result
}
