package matching

import (
	"sort"
	"strings"

	"maintenance-dispatch/geohash"
	"maintenance-dispatch/models"
)

// IsCandidate reports whether p is available and offers trade.
func IsCandidate(p models.Provider, trade string) bool {
	return p.Available && strings.Contains(strings.ToLower(p.Trades), strings.ToLower(trade))
}

// FindBestProvider returns the candidate nearest to the request. Ties go to
// the provider that comes first in the input. The boolean is false when no
// provider is a candidate.
func FindBestProvider(providers []models.Provider, req models.Request) (models.Match, bool) {
	var best models.Match
	found := false
	for _, p := range providers {
		if !IsCandidate(p, req.Trade) {
			continue
		}
		d := geohash.Haversine(req.Latitude, req.Longitude, p.Latitude, p.Longitude)
		if !found || d < best.DistanceKm {
			best = models.Match{Provider: p, DistanceKm: d}
			found = true
		}
	}
	return best, found
}

// Matcher answers requests against a fixed provider list, using a spatial
// index when a search radius is given.
type Matcher struct {
	providers []models.Provider
	index     geohash.Index
}

func NewMatcher(providers []models.Provider, technique geohash.GeoIndexingTechnique) (*Matcher, error) {
	points := make([]geohash.Point, len(providers))
	for i, p := range providers {
		points[i] = geohash.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	idx, err := geohash.BuildIndex(technique, points)
	if err != nil {
		return nil, err
	}
	return &Matcher{providers: providers, index: idx}, nil
}

// Best returns the nearest candidate within radiusKm of the request, or
// anywhere when radiusKm is zero or negative.
func (m *Matcher) Best(req models.Request, radiusKm float64) (models.Match, bool) {
	if radiusKm <= 0 {
		return FindBestProvider(m.providers, req)
	}
	best, ok := FindBestProvider(m.within(req, radiusKm), req)
	if !ok || !(best.DistanceKm <= radiusKm) {
		return models.Match{}, false
	}
	return best, true
}

// Nearby ranks every candidate within radiusKm by distance, nearest first,
// keeping input order between equal distances. A radius of zero or less
// means no limit on distance; a limit of zero or less keeps all matches.
func (m *Matcher) Nearby(req models.Request, radiusKm float64, limit int) []models.Match {
	pool := m.providers
	if radiusKm > 0 {
		pool = m.within(req, radiusKm)
	}

	var matches []models.Match
	for _, p := range pool {
		if !IsCandidate(p, req.Trade) {
			continue
		}
		d := geohash.Haversine(req.Latitude, req.Longitude, p.Latitude, p.Longitude)
		if radiusKm > 0 && !(d <= radiusKm) {
			continue
		}
		matches = append(matches, models.Match{Provider: p, DistanceKm: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// within returns the indexed providers near the request, in input order.
func (m *Matcher) within(req models.Request, radiusKm float64) []models.Provider {
	positions := m.index.Within(req.Latitude, req.Longitude, radiusKm)
	out := make([]models.Provider, 0, len(positions))
	for _, pos := range positions {
		out = append(out, m.providers[pos])
	}
	return out
}
