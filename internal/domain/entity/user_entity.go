package entity

import (
	"time"
)

// User is the aggregate root for the directory domain.
// Latitude, Longitude, and Timezone are derived from Zipcode by the
// location resolver and are never supplied by clients directly. The four
// fields always describe the same resolution: a record with a zipcode that
// does not match its coordinates must never be persisted.
type User struct {
	ID        string
	Name      string
	Zipcode   string
	Latitude  float64
	Longitude float64
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is the result of resolving a zipcode.
type Location struct {
	Latitude  float64
	Longitude float64
	Timezone  string
}

// ApplyLocation overwrites the derived fields with a fresh resolution.
func (u *User) ApplyLocation(loc Location) {
	u.Latitude = loc.Latitude
	u.Longitude = loc.Longitude
	u.Timezone = loc.Timezone
}
