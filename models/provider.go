package models

// Provider is a service vendor loaded from the provider file.
type Provider struct {
	ID        string  `json:"id"`
	Name      string  `json:"nom"`
	Trades    string  `json:"metiers"` // lower-cased at load time
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Available bool    `json:"disponibilite"`
	Geohash   string  `json:"geohash,omitempty"`
}

// Request is a job to assign: a trade and the job location.
type Request struct {
	Trade     string  `json:"trade"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Urgent    bool    `json:"urgent"` // accepted, not used in selection
}

// Match is a selected provider and its distance from the request, in km.
type Match struct {
	Provider   Provider `json:"provider"`
	DistanceKm float64  `json:"distance_km"`
}
