package geohash

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// MaxPrecision is the finest geohash precision the index considers.
const MaxPrecision = 8

// Encode coordinates into a geohash with specified precision.
func Encode(lat, lon float64, precision uint) string {
	return geohash.EncodeWithPrecision(lat, lon, precision)
}

// GetNeighbors returns the geohashes of neighboring cells.
func GetNeighbors(hash string) []string {
	neighbors := geohash.Neighbors(hash)
	return neighbors
}

// cellSizeKm returns the height and width of a geohash cell of the given
// precision, the width measured at latitude lat.
func cellSizeKm(precision uint, lat float64) (height, width float64) {
	bits := 5 * precision
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	latDeg := 180.0 / math.Exp2(float64(latBits))
	lonDeg := 360.0 / math.Exp2(float64(lonBits))
	return latDeg * kmPerDegree, lonDeg * kmPerDegree * math.Cos(toRadians(lat))
}

// PrecisionForRadius picks the finest precision whose cells are at least
// radiusKm on both sides around lat, so a cell and its 8 neighbors cover
// every point within the radius. It reports false when no precision does.
func PrecisionForRadius(lat, radiusKm float64) (uint, bool) {
	box := boundingBox(lat, 0, radiusKm)
	widest := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))

	found := uint(0)
	for p := uint(1); p <= MaxPrecision; p++ {
		h, w := cellSizeKm(p, widest)
		if h < radiusKm || w < radiusKm {
			break
		}
		found = p
	}
	return found, found > 0
}
