package matching

import (
	"math"
	"testing"

	"maintenance-dispatch/geohash"
	"maintenance-dispatch/models"
)

func provider(id, trades string, available bool, lat, lon float64) models.Provider {
	return models.Provider{ID: id, Name: "Provider " + id, Trades: trades, Available: available, Latitude: lat, Longitude: lon}
}

func TestFindBestProvider(t *testing.T) {
	cases := []struct {
		name      string
		providers []models.Provider
		req       models.Request
		expectID  string
		expectOK  bool
	}{
		{
			name: "nearest of two",
			providers: []models.Provider{
				provider("1", "plomberie", true, 0, 0),
				provider("2", "plomberie", true, 0, 10),
			},
			req:      models.Request{Trade: "plomberie", Latitude: 0, Longitude: 0},
			expectID: "1",
			expectOK: true,
		},
		{
			name: "unavailable provider excluded even at distance zero",
			providers: []models.Provider{
				provider("1", "plomberie", false, 0, 0),
				provider("2", "plomberie", true, 0, 10),
			},
			req:      models.Request{Trade: "plomberie", Latitude: 0, Longitude: 0},
			expectID: "2",
			expectOK: true,
		},
		{
			name: "trade must be a substring",
			providers: []models.Provider{
				provider("1", "electricite", true, 0, 0),
				provider("2", "plomberie;chauffage", true, 5, 5),
			},
			req:      models.Request{Trade: "chauffage", Latitude: 0, Longitude: 0},
			expectID: "2",
			expectOK: true,
		},
		{
			name: "trade comparison ignores case",
			providers: []models.Provider{
				provider("1", "plomberie", true, 1, 1),
			},
			req:      models.Request{Trade: "PlomBerie", Latitude: 0, Longitude: 0},
			expectID: "1",
			expectOK: true,
		},
		{
			name: "tie goes to the first in input order",
			providers: []models.Provider{
				provider("a", "plomberie", true, 0, 1),
				provider("b", "plomberie", true, 0, -1),
				provider("c", "plomberie", true, 1, 0),
			},
			req:      models.Request{Trade: "plomberie", Latitude: 0, Longitude: 0},
			expectID: "a",
			expectOK: true,
		},
		{
			name: "no provider offers the trade",
			providers: []models.Provider{
				provider("1", "plomberie", true, 0, 0),
			},
			req:      models.Request{Trade: "toiture", Latitude: 0, Longitude: 0},
			expectOK: false,
		},
		{
			name:     "empty list",
			req:      models.Request{Trade: "plomberie"},
			expectOK: false,
		},
		{
			name: "urgency does not change the selection",
			providers: []models.Provider{
				provider("1", "plomberie", true, 0, 0),
				provider("2", "plomberie", true, 0, 10),
			},
			req:      models.Request{Trade: "plomberie", Latitude: 0, Longitude: 9, Urgent: true},
			expectID: "2",
			expectOK: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FindBestProvider(tc.providers, tc.req)
			if ok != tc.expectOK {
				t.Fatalf("FindBestProvider ok = %v; want %v", ok, tc.expectOK)
			}
			if ok && got.Provider.ID != tc.expectID {
				t.Fatalf("FindBestProvider = %q; want %q", got.Provider.ID, tc.expectID)
			}
		})
	}
}

func TestFindBestProviderDistance(t *testing.T) {
	providers := []models.Provider{provider("1", "plomberie", true, 0, 1)}
	got, ok := FindBestProvider(providers, models.Request{Trade: "plomberie"})
	if !ok {
		t.Fatal("expected a match")
	}
	if math.Abs(got.DistanceKm-111.19) > 0.01 {
		t.Fatalf("distance = %v; want ~111.19", got.DistanceKm)
	}
}

func fleet() []models.Provider {
	return []models.Provider{
		provider("far", "plomberie", true, 45.76, 4.83),        // Lyon
		provider("busy", "plomberie", false, 48.857, 2.352),    // Paris, unavailable
		provider("sparky", "electricite", true, 48.857, 2.353), // Paris, other trade
		provider("near", "plomberie", true, 48.86, 2.36),
		provider("near-twin", "plomberie", true, 48.86, 2.36),
		provider("suburb", "plomberie;chauffage", true, 48.9, 2.25),
	}
}

func TestMatcherBest(t *testing.T) {
	req := models.Request{Trade: "plomberie", Latitude: 48.8566, Longitude: 2.3522}
	for _, tech := range []geohash.GeoIndexingTechnique{geohash.RTreeTechnique, geohash.QuadtreeTechnique, geohash.GeohashingTechnique, geohash.ScanTechnique} {
		t.Run(string(tech), func(t *testing.T) {
			m, err := NewMatcher(fleet(), tech)
			if err != nil {
				t.Fatalf("NewMatcher: %v", err)
			}

			got, ok := m.Best(req, 0)
			if !ok || got.Provider.ID != "near" {
				t.Fatalf("Best(unlimited) = %q, %v; want near", got.Provider.ID, ok)
			}
			got, ok = m.Best(req, 5)
			if !ok || got.Provider.ID != "near" {
				t.Fatalf("Best(5km) = %q, %v; want near", got.Provider.ID, ok)
			}
			if _, ok := m.Best(models.Request{Trade: "plomberie", Latitude: 43.6, Longitude: 1.44}, 50); ok {
				t.Fatal("Best(50km from Toulouse) found a provider; want none")
			}
		})
	}
}

func TestMatcherNearby(t *testing.T) {
	req := models.Request{Trade: "plomberie", Latitude: 48.8566, Longitude: 2.3522}
	m, err := NewMatcher(fleet(), geohash.RTreeTechnique)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	ids := func(matches []models.Match) []string {
		var out []string
		for _, mt := range matches {
			out = append(out, mt.Provider.ID)
		}
		return out
	}

	cases := []struct {
		name   string
		radius float64
		limit  int
		expect []string
	}{
		{"within 20 km", 20, 0, []string{"near", "near-twin", "suburb"}},
		{"limited", 20, 2, []string{"near", "near-twin"}},
		{"unlimited radius", 0, 0, []string{"near", "near-twin", "suburb", "far"}},
		{"too small", 0.1, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(m.Nearby(req, tc.radius, tc.limit))
			if len(got) != len(tc.expect) {
				t.Fatalf("Nearby = %v; want %v", got, tc.expect)
			}
			for i := range got {
				if got[i] != tc.expect[i] {
					t.Fatalf("Nearby = %v; want %v", got, tc.expect)
				}
			}
		})
	}
}

func TestMatcherOutOfRangeRequest(t *testing.T) {
	providers := []models.Provider{provider("polar", "plomberie", true, 85, 180)}
	req := models.Request{Trade: "plomberie", Latitude: 95, Longitude: 0}
	for _, tech := range []geohash.GeoIndexingTechnique{geohash.RTreeTechnique, geohash.QuadtreeTechnique, geohash.GeohashingTechnique, geohash.ScanTechnique} {
		t.Run(string(tech), func(t *testing.T) {
			m, err := NewMatcher(providers, tech)
			if err != nil {
				t.Fatalf("NewMatcher: %v", err)
			}
			got, ok := m.Best(req, 100)
			if !ok || got.Provider.ID != "polar" {
				t.Fatalf("Best = %q, %v; want polar", got.Provider.ID, ok)
			}
			if math.IsNaN(got.DistanceKm) || got.DistanceKm > 100 {
				t.Fatalf("distance = %v; want a finite value within 100 km", got.DistanceKm)
			}
			if n := len(m.Nearby(req, 100, 0)); n != 1 {
				t.Fatalf("Nearby returned %d matches; want 1", n)
			}
		})
	}
}

func TestMatcherRejectsNaNDistance(t *testing.T) {
	m, err := NewMatcher(fleet(), geohash.ScanTechnique)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	req := models.Request{Trade: "plomberie", Latitude: math.NaN(), Longitude: 2.35}
	if got, ok := m.Best(req, 10); ok {
		t.Fatalf("Best = %+v; want no match for a NaN latitude", got)
	}
	if got := m.Nearby(req, 10, 0); len(got) != 0 {
		t.Fatalf("Nearby = %+v; want none for a NaN latitude", got)
	}
}

func TestNewMatcherUnsupportedTechnique(t *testing.T) {
	if _, err := NewMatcher(fleet(), "octree"); err == nil {
		t.Fatal("expected an error")
	}
}
