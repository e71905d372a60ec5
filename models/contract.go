package models

import "time"

type Contract struct {
	Reference      string
	ClientName     string
	ClientAddress  string
	ServiceType    string
	Price          float64 // EUR
	StartDate      time.Time
	DurationMonths int
	PaymentTerms   string
	GeneratedAt    time.Time
}
