package geohash

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a just outside [0, 1] for out-of-range or
	// antipodal inputs.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// kmPerDegree is the length of one degree of latitude on the mean sphere.
const kmPerDegree = EarthRadiusKm * math.Pi / 180.0

// boundingBox returns a lat/lon box that contains every point within
// radiusKm of (lat, lon). The box falls back to the full longitude range
// when it would cross the antimeridian or touch a pole.
func boundingBox(lat, lon, radiusKm float64) Bounds {
	dLat := radiusKm / kmPerDegree
	b := Bounds{MinLat: lat - dLat, MaxLat: lat + dLat, MinLon: -180, MaxLon: 180}
	if b.MinLat < -90 {
		b.MinLat = -90
	}
	if b.MaxLat > 90 {
		b.MaxLat = 90
	}

	cosLat := math.Cos(toRadians(math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))))
	if cosLat < 1e-9 {
		return b
	}
	dLon := radiusKm / (kmPerDegree * cosLat)
	if lon-dLon >= -180 && lon+dLon <= 180 {
		b.MinLon, b.MaxLon = lon-dLon, lon+dLon
	}
	return b
}
